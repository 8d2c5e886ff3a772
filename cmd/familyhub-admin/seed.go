package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// defaultSubjects is the starter catalogue; Math carries the 6th grade syllabus.
var defaultSubjects = map[string][]string{
	"Math": {
		"Fractions", "Decimals", "Percentages", "Ratios", "Proportions",
		"Integers", "Order of Operations", "Algebraic Expressions",
		"One-Step Equations", "Geometry Basics", "Area & Perimeter",
		"Volume", "Data Analysis", "Mean/Median/Mode",
	},
	"Science":      {},
	"Reading":      {},
	"Arabic/Quran": {},
}

var seedLearningCmd = &cobra.Command{
	Use:   "seed-learning",
	Short: "Insert the default subjects and topics when none exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, err := openStore()
		if err != nil {
			return err
		}
		n, err := store.SeedLearning(defaultSubjects)
		if err != nil {
			return err
		}
		if n == 0 {
			log.Info().Msg("subjects already present, nothing to seed")
			return nil
		}
		log.Info().Int("topics", n).Msg("learning catalogue seeded")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedLearningCmd)
}
