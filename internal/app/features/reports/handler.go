// internal/app/features/reports/handler.go
package reports

import (
	"github.com/hdngo/collabhub/internal/app/features/apierrors"
	groupstore "github.com/hdngo/collabhub/internal/app/store/groups"
	memberstore "github.com/hdngo/collabhub/internal/app/store/members"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the read-side reports: grade summaries, contribution
// shares and project progress.
type Handler struct {
	DB      *mongo.Database
	Log     *zap.Logger
	ErrLog  *apierrors.ErrorLogger
	Groups  *groupstore.Store
	Members *memberstore.Store
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Log:     logger,
		ErrLog:  apierrors.NewErrorLogger(logger),
		Groups:  groupstore.New(db, logger),
		Members: memberstore.New(db),
	}
}
