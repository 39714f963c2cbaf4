package signup

import "context"

type RequestRepository interface {
	Create(ctx context.Context, req Request) (Request, error)
	GetByID(ctx context.Context, id string) (Request, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, filter RequestFilter) ([]Request, error)
	UpdateStatus(ctx context.Context, id string, status Status, reviewNotes *string, reviewedBy *string) (Request, error)
}
