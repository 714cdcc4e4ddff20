package dto

// RunProvisionRequest starts a month-end provisioning run.
type RunProvisionRequest struct {
	Period string `json:"period" binding:"required,len=7"` // YYYY-MM
}
