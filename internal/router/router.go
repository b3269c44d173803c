package router

import (
	"net/http"

	"ngosocial/internal/engagement"
	"ngosocial/internal/handlers"
	"ngosocial/internal/middleware"
	"ngosocial/internal/models"
	"ngosocial/internal/services"
	"ngosocial/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deps 路由需要的全部服务
type Deps struct {
	Store      *store.Store
	Content    *handlers.Content
	Tokens     *services.TokenIssuer
	Auth       *services.AuthService
	Voter      *services.Voter
	Membership *services.Membership
	Commenter  *services.Commenter
	Payments   *services.PaymentService
	Log        *zap.Logger
}

// New builds the engine with the shared middleware and every route.
func New(d Deps) *gin.Engine {
	r := gin.New()
	// 顺序：日志最外层，能看到 ErrorHandler 写出的状态码
	r.Use(middleware.RequestLogger(d.Log), middleware.ErrorHandler(d.Log), gin.Recovery())
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "route not found"})
	})
	RegisterRoutes(r, d)
	return r
}

// byKind registers path/user and path/ngo, each restricted to that role.
func byKind(g *gin.RouterGroup, method, path string, h gin.HandlerFunc) {
	g.Handle(method, path+"/user", middleware.RequireRole(engagement.KindUser), h)
	g.Handle(method, path+"/ngo", middleware.RequireRole(engagement.KindNgo), h)
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Handlers
	authHandler := handlers.NewAuthHandler(d.Auth)
	accountHandler := handlers.NewAccountHandler(d.Content)
	postHandler := handlers.NewPostHandler(d.Content)
	issueHandler := handlers.NewIssueHandler(d.Content)
	campaignHandler := handlers.NewCampaignHandler(d.Content, d.Membership)
	fundRaisingHandler := handlers.NewFundRaisingHandler(d.Content)
	voteHandler := handlers.NewVoteHandler(d.Voter)
	commentHandler := handlers.NewCommentHandler(d.Commenter)
	notificationHandler := handlers.NewNotificationHandler(d.Store)
	paymentHandler := handlers.NewPaymentHandler(d.Payments)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	api := r.Group("/api/v1")

	// 公共路由 (Public Routes)
	auth := api.Group("/auth")
	{
		auth.POST("/register/user", authHandler.RegisterUser)
		auth.POST("/register/ngo", authHandler.RegisterNgo)
		for _, k := range []struct {
			suffix string
			kind   engagement.Kind
		}{{"user", engagement.KindUser}, {"ngo", engagement.KindNgo}} {
			auth.POST("/verify/"+k.suffix, authHandler.Verify(k.kind))
			auth.POST("/resend-otp/"+k.suffix, authHandler.ResendOTP(k.kind))
			auth.POST("/set-password/"+k.suffix, authHandler.SetPassword(k.kind))
			auth.POST("/login/"+k.suffix, authHandler.Login(k.kind))
		}
	}
	api.POST("/payment/webhook", paymentHandler.Webhook) // 网关回调，签名校验

	// 受保护路由 (Protected Routes)
	authorized := api.Group("/")
	authorized.Use(middleware.Authenticate(d.Tokens, d.Store))

	user := authorized.Group("/user", middleware.RequireRole(engagement.KindUser))
	{
		user.GET("/profile", accountHandler.UserProfile)
		user.PUT("/profile/update", accountHandler.UpdateUser)
		user.GET("/points", accountHandler.PointLogs)
	}
	ngo := authorized.Group("/ngo", middleware.RequireRole(engagement.KindNgo))
	{
		ngo.GET("/profile", accountHandler.NgoProfile)
		ngo.PUT("/profile/update", accountHandler.UpdateNgo)
		ngo.GET("/points", accountHandler.PointLogs)
	}
	// 列表与搜索对两类账号都开放
	authorized.GET("/user/all", accountHandler.AllUsers)
	authorized.GET("/user/search", accountHandler.SearchUsers)
	authorized.GET("/ngo/all", accountHandler.AllNgos)
	authorized.GET("/ngo/search", accountHandler.SearchNgos)

	post := authorized.Group("/post")
	{
		byKind(post, http.MethodPost, "/create", postHandler.Create)
		post.GET("/all", postHandler.List)
		post.GET("/:id", postHandler.Get)
		byKind(post, http.MethodPatch, "/vote/mutate", voteHandler.Mutate(models.TargetPost))
		byKind(post, http.MethodPost, "/comment/create", commentHandler.Create(models.TargetPost))
		byKind(post, http.MethodPatch, "/comment/vote/mutate", voteHandler.Mutate(models.TargetComment))
	}

	issue := authorized.Group("/issue")
	{
		byKind(issue, http.MethodPost, "/create", issueHandler.Create)
		issue.GET("/all", issueHandler.List)
		issue.GET("/:id", issueHandler.Get)
		byKind(issue, http.MethodPatch, "/vote/mutate", voteHandler.Mutate(models.TargetIssue))
		byKind(issue, http.MethodPost, "/comment/create", commentHandler.Create(models.TargetIssue))
		byKind(issue, http.MethodPatch, "/comment/vote/mutate", voteHandler.Mutate(models.TargetComment))
	}

	campaign := authorized.Group("/campaign")
	{
		byKind(campaign, http.MethodPost, "/create", campaignHandler.Create)
		campaign.GET("/all", campaignHandler.List)
		campaign.GET("/:campaignId", campaignHandler.Get)
		campaign.PATCH("/member/mutate/user/:campaignId", middleware.RequireRole(engagement.KindUser), campaignHandler.Mutate)
		campaign.PATCH("/member/mutate/ngo/:campaignId", middleware.RequireRole(engagement.KindNgo), campaignHandler.Mutate)
		// 路径中的 user / ngo 指被移除成员的类型，发起者可以是任一类型
		campaign.DELETE("/member/force-leave/user/:campaignId/:memberId", campaignHandler.ForceLeave(engagement.KindUser))
		campaign.DELETE("/member/force-leave/ngo/:campaignId/:memberId", campaignHandler.ForceLeave(engagement.KindNgo))
		campaign.POST("/broadcast", campaignHandler.Broadcast)
		campaign.DELETE("/broadcast/:id", campaignHandler.DeleteBroadcast)
	}

	fundRaising := authorized.Group("/fundraising")
	{
		byKind(fundRaising, http.MethodPost, "/create", fundRaisingHandler.Create)
		fundRaising.GET("/all", fundRaisingHandler.List)
		fundRaising.GET("/:fundRaisingId", fundRaisingHandler.Get)
	}

	notification := authorized.Group("/notification")
	{
		notification.POST("/create", notificationHandler.Create)
		notification.GET("/mine", notificationHandler.List)
		notification.PUT("/mark-read/:id", notificationHandler.Read)
		notification.PUT("/mark-all-read", notificationHandler.ReadAll)
	}

	payment := authorized.Group("/payment")
	{
		payment.POST("/create-payment-intent/campaign", paymentHandler.CampaignIntent)
		payment.POST("/create-payment-intent/fundraising", paymentHandler.FundRaisingIntent)
	}
}
