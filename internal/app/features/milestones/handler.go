// internal/app/features/milestones/handler.go
package milestones

import (
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/hdngo/collabhub/internal/app/features/apierrors"
	gradestore "github.com/hdngo/collabhub/internal/app/store/grades"
	groupmilestonestore "github.com/hdngo/collabhub/internal/app/store/groupmilestones"
	milestonestore "github.com/hdngo/collabhub/internal/app/store/milestones"
	submissionstore "github.com/hdngo/collabhub/internal/app/store/submissions"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the milestone feature:
// template definitions, submissions against them, the ad hoc per-group
// milestones with their grades, and the blob store for uploads.
type Handler struct {
	DB          *mongo.Database
	Log         *zap.Logger
	ErrLog      *apierrors.ErrorLogger
	Files       storage.Store
	Milestones  *milestonestore.Store
	Submissions *submissionstore.Store
	GroupMS     *groupmilestonestore.Store
	Grades      *gradestore.Store
}

func NewHandler(db *mongo.Database, files storage.Store, logger *zap.Logger) *Handler {
	return &Handler{
		DB:          db,
		Log:         logger,
		ErrLog:      apierrors.NewErrorLogger(logger),
		Files:       files,
		Milestones:  milestonestore.New(db),
		Submissions: submissionstore.New(db),
		GroupMS:     groupmilestonestore.New(db),
		Grades:      gradestore.New(db),
	}
}
