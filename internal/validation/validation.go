package validation

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
)

var (
	prayers         = set(append([]string{model.PrayerTaraweeh}, model.DailyPrayers...)...)
	prayerStatuses  = set(model.PrayerNotPrayed, model.PrayerOnTime, model.PrayerLate, model.PrayerQada)
	recurrences     = set(model.RecurDaily, model.RecurWeekly, model.RecurMonthly)
	quickCategories = set(model.QuickTaskCategories...)
)

func set(vals ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		out[v] = struct{}{}
	}
	return out
}

func oneOf(allowed map[string]struct{}) validator.Func {
	return func(fl validator.FieldLevel) bool {
		_, ok := allowed[fl.Field().String()]
		return ok
	}
}

// currency accepts a three-letter ISO 4217 style code in either case.
func currency(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if !(r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z') {
			return false
		}
	}
	return true
}

func ymd(fl validator.FieldLevel) bool {
	_, err := model.ParseDate(fl.Field().String())
	return err == nil
}

// Register installs the custom tags on v.
func Register(v *validator.Validate) error {
	tags := map[string]validator.Func{
		"prayer":        oneOf(prayers),
		"prayerstatus":  oneOf(prayerStatuses),
		"recurrence":    oneOf(recurrences),
		"quickcategory": oneOf(quickCategories),
		"currency":      currency,
		"ymd":           ymd,
	}
	for tag, fn := range tags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return nil
}

var once sync.Once

// RegisterGin installs the custom tags on gin's binding validator once.
func RegisterGin() {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			panic("gin binding validator is not go-playground/validator")
		}
		if err := Register(v); err != nil {
			panic(err)
		}
	})
}
