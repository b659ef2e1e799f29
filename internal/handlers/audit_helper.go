package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/agenda-facil/internal/audit"
	"github.com/BruksfildServices01/agenda-facil/internal/middleware"
)

// Auditor receives fire-and-forget audit events.
type Auditor interface {
	Dispatch(ev audit.Event)
}

type nopAuditor struct{}

func (nopAuditor) Dispatch(audit.Event) {}

func auditorOrNop(a Auditor) Auditor {
	if a == nil {
		return nopAuditor{}
	}
	return a
}

// writeAudit records an action by the authenticated provider.
func writeAudit(
	a Auditor,
	c *gin.Context,
	action string,
	entity string,
	entityID *uint,
	meta any,
) {
	userID := middleware.UserID(c)

	a.Dispatch(audit.Event{
		ProfileID: middleware.ProfileID(c),
		UserID:    &userID,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Metadata:  meta,
	})
}
