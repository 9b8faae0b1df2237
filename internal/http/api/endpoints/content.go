package endpoints

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vakit-app/vakit/internal/content"
	"github.com/vakit-app/vakit/internal/http/api"
	"github.com/vakit-app/vakit/internal/http/api/packets"
)

type ContentController struct {
	loc *time.Location
}

// ContentModule serves the dua and reminder of the day.
func ContentModule(loc *time.Location) api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		ctl := &ContentController{loc: loc}
		c.Group.GET("/content/daily", api.ResolveEndpoint(ctl.daily))
	})
}

// GET /api/content/daily
func (t *ContentController) daily(ctx *gin.Context) (any, *api.Error) {
	dua, reminder := content.ForDate(time.Now().In(t.loc))
	return packets.DailyContentResponse{Dua: dua, Reminder: reminder}, nil
}
