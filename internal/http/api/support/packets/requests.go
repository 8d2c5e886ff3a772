package packets

type CreateIssueRequest struct {
	Subject      string  `json:"subject" binding:"required,max=200"`
	Description  string  `json:"description" binding:"required"`
	Category     string  `json:"category" binding:"omitempty,oneof=bug feature_request question feedback other"`
	Priority     string  `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	ContactEmail *string `json:"contact_email" binding:"omitempty,email"`
}

type UpdateIssueRequest struct {
	Status     *string `json:"status" binding:"omitempty,oneof=open in_progress resolved closed"`
	Priority   *string `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	AdminNotes *string `json:"admin_notes"`
}
