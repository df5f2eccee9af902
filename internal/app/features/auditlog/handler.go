// internal/app/features/auditlog/handler.go
package auditlog

import (
	"github.com/dalemusser/workpulse/internal/app/store/audit"
	projectstore "github.com/dalemusser/workpulse/internal/app/store/projects"
	userstore "github.com/dalemusser/workpulse/internal/app/store/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const endpoint = "audit_log"

type Handler struct {
	Events   *audit.Store
	Users    *userstore.Store
	Projects *projectstore.Store
	Log      *zap.Logger
}

// NewHandler constructs an Audit Log feature handler bound to
// the given Mongo database and logger.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Events:   audit.New(db),
		Users:    userstore.New(db),
		Projects: projectstore.New(db),
		Log:      logger,
	}
}
