package api

import (
	"net/http"
	"net/http/pprof"

	"k24chat/pkg/api/router"
	"k24chat/pkg/api/routes"
	baserouter "k24chat/pkg/router"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

// wrapHTTPHandler wraps an http.Handler to work with fasthttp.
func wrapHTTPHandler(h http.Handler) fasthttp.RequestHandler {
	return fasthttpadaptor.NewFastHTTPHandler(h)
}

func pprofHandler(ctx *fasthttp.RequestCtx) {
	switch name := router.PathParam(ctx, "profile"); name {
	case "cmdline":
		wrapHTTPHandler(http.HandlerFunc(pprof.Cmdline))(ctx)
	case "profile":
		wrapHTTPHandler(http.HandlerFunc(pprof.Profile))(ctx)
	case "symbol":
		wrapHTTPHandler(http.HandlerFunc(pprof.Symbol))(ctx)
	case "trace":
		wrapHTTPHandler(http.HandlerFunc(pprof.Trace))(ctx)
	case "":
		wrapHTTPHandler(http.HandlerFunc(pprof.Index))(ctx)
	default:
		wrapHTTPHandler(pprof.Handler(name))(ctx)
	}
}

// RegisterRoutes wires all API routes onto the provided router.
func RegisterRoutes(r *baserouter.Router, h *routes.Handlers, gatherer prometheus.Gatherer) {
	r.GET("/echo", h.Echo)

	// auth
	r.POST("/auth/register/v3", h.Register)
	r.POST("/auth/login/v3", h.Login)
	r.POST("/auth/logout/v2", h.Logout)
	r.POST("/auth/passwordreset/request/v1", h.PasswordResetRequest)
	r.POST("/auth/passwordreset/reset/v1", h.PasswordReset)

	// channels
	r.POST("/channels/create/v3", h.CreateChannel)
	r.GET("/channels/list/v3", h.ListChannels)
	r.GET("/channels/listAll/v3", h.ListAllChannels)
	r.GET("/channel/details/v3", h.ChannelDetails)
	r.GET("/channel/messages/v3", h.ChannelMessages)
	r.POST("/channel/join/v3", h.JoinChannel)
	r.POST("/channel/invite/v3", h.InviteToChannel)
	r.POST("/channel/leave/v2", h.LeaveChannel)
	r.POST("/channel/addowner/v2", h.AddChannelOwner)
	r.POST("/channel/removeowner/v2", h.RemoveChannelOwner)

	// dms
	r.POST("/dm/create/v2", h.CreateDM)
	r.GET("/dm/list/v2", h.ListDMs)
	r.DELETE("/dm/remove/v2", h.RemoveDM)
	r.GET("/dm/details/v2", h.DMDetails)
	r.POST("/dm/leave/v2", h.LeaveDM)
	r.GET("/dm/messages/v2", h.DMMessages)

	// users
	r.GET("/user/profile/v3", h.Profile)
	r.GET("/users/all/v2", h.AllUsers)
	r.PUT("/user/profile/setname/v2", h.SetName)
	r.PUT("/user/profile/setemail/v2", h.SetEmail)
	r.PUT("/user/profile/sethandle/v2", h.SetHandle)
	r.POST("/user/profile/uploadphoto/v1", h.UploadPhoto)
	r.GET("/img/{file}", h.Image)

	// messages
	r.POST("/message/send/v2", h.SendMessage)
	r.POST("/message/senddm/v2", h.SendDM)
	r.POST("/message/sendlater/v1", h.SendLater)
	r.POST("/message/sendlaterdm/v1", h.SendLaterDM)
	r.POST("/message/share/v1", h.ShareMessage)
	r.PUT("/message/edit/v2", h.EditMessage)
	r.DELETE("/message/remove/v2", h.RemoveMessage)
	r.POST("/message/react/v1", h.ReactMessage)
	r.POST("/message/unreact/v1", h.UnreactMessage)
	r.POST("/message/pin/v1", h.PinMessage)
	r.POST("/message/unpin/v1", h.UnpinMessage)

	// admin
	r.DELETE("/admin/user/remove/v1", h.RemoveUser)
	r.POST("/admin/userpermission/change/v1", h.ChangePermission)

	// standup
	r.POST("/standup/start/v1", h.StartStandup)
	r.POST("/standup/send/v1", h.SendStandup)
	r.GET("/standup/active/v1", h.StandupActive)

	r.GET("/notifications/get/v1", h.Notifications)
	r.GET("/search/v1", h.Search)
	r.GET("/user/stats/v1", h.UserStats)
	r.GET("/users/stats/v1", h.WorkspaceStats)
	r.DELETE("/clear/v1", h.Clear)

	// admin debug routes
	r.GET("/admin/debug/prometheus", wrapHTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	r.GET("/admin/debug/pprof/{profile...}", pprofHandler)

	// admin job routes
	r.POST("/admin/jobs/backup", h.RunBackup)

	r.NotFound(func(ctx *fasthttp.RequestCtx) {
		router.WriteJSONError(ctx, fasthttp.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(ctx *fasthttp.RequestCtx) {
		router.WriteJSONError(ctx, fasthttp.StatusMethodNotAllowed, "method not allowed")
	})
}

// Handler builds the routed and instrumented fasthttp handler.
func Handler(h *routes.Handlers, m *Metrics, gatherer prometheus.Gatherer) fasthttp.RequestHandler {
	r := baserouter.New()
	RegisterRoutes(r, h, gatherer)
	return m.Instrument(r.Handler)
}
