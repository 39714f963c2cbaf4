package signup

import "context"

type SignupService interface {
	// Submit stores a public application as PENDING
	Submit(ctx context.Context, req SubmitRequest) (SubmitResponse, error)

	List(ctx context.Context, filter RequestFilter) (ListResponse, error)

	// UpdateStatus records a review. Approval also creates the care worker's account.
	UpdateStatus(ctx context.Context, req UpdateStatusRequest) (UpdateStatusResponse, error)
}
