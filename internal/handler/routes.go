package handler

import "github.com/gin-gonic/gin"

// RegisterRoutes 注册健康检查、前台 /api 与后台 /api/admin 路由。
// 会话、跨域、静态文件等中间件由调用方在引擎上配置。
func (a *API) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", a.Health)

	public := r.Group("/api")
	public.Use(a.LocaleMiddleware())
	{
		public.GET("/blogs", a.ListPublishedBlogs)
		public.GET("/blogs/categories", a.ListBlogCategories)
		public.GET("/blogs/:slug", a.GetPublishedBlog)

		public.GET("/careers", a.ListOpenCareers)
		public.GET("/careers/departments", a.ListCareerDepartments)
		public.GET("/careers/:slug", a.GetOpenCareer)

		public.GET("/contact-offices", a.ListActiveOffices)
		public.POST("/contact-offices", AuthRequired(), a.CreateOffice)
		public.GET("/industry-stats", a.ListIndustryStats)
		public.GET("/pages/:slug", a.GetPublishedPage)

		public.GET("/translations/:lang", a.GetDictionary)
		public.GET("/languages", a.ListLanguages)

		public.POST("/contact-messages", a.SubmitContactMessage)
	}

	// 后台管理路由
	admin := r.Group("/api/admin")
	{
		admin.POST("/auth/login", a.Login)
		admin.POST("/auth/verify-otp", a.VerifyOTP)

		// 需要认证的后台路由
		auth := admin.Group("")
		auth.Use(AuthRequired())
		{
			auth.POST("/auth/logout", a.Logout)
			auth.GET("/auth/me", a.Me)
			auth.PUT("/auth/password", a.ChangePassword)
			auth.GET("/dashboard", a.Dashboard)

			auth.GET("/blogs", a.ListBlogs)
			auth.GET("/blogs/:id", a.GetBlog)
			auth.POST("/blogs", a.CreateBlog)
			auth.PUT("/blogs/:id", a.UpdateBlog)
			auth.DELETE("/blogs/:id", a.DeleteBlog)

			auth.GET("/careers", a.ListCareers)
			auth.GET("/careers/:id", a.GetCareer)
			auth.POST("/careers", a.CreateCareer)
			auth.PUT("/careers/:id", a.UpdateCareer)
			auth.DELETE("/careers/:id", a.DeleteCareer)

			auth.GET("/contact-offices", a.ListOffices)
			auth.POST("/contact-offices", a.CreateOffice)
			auth.PUT("/contact-offices/order", a.ReorderOffices)
			auth.PUT("/contact-offices/:id", a.UpdateOffice)
			auth.DELETE("/contact-offices/:id", a.DeleteOffice)

			auth.GET("/industry-stats", a.ListIndustryStatsAdmin)
			auth.GET("/industry-stats/:id", a.GetIndustryStat)
			auth.POST("/industry-stats", a.CreateIndustryStat)
			auth.PUT("/industry-stats/order", a.ReorderIndustryStats)
			auth.PUT("/industry-stats/:id", a.UpdateIndustryStat)
			auth.DELETE("/industry-stats/:id", a.DeleteIndustryStat)

			auth.GET("/pages", a.ListPages)
			auth.GET("/pages/:id", a.GetPage)
			auth.POST("/pages", a.CreatePage)
			auth.PUT("/pages/:id", a.UpdatePage)
			auth.DELETE("/pages/:id", a.DeletePage)
			auth.POST("/pages/:id/sections", a.AddSection)
			auth.PUT("/pages/:id/sections/order", a.ReorderSections)
			auth.PUT("/sections/:id", a.UpdateSection)
			auth.DELETE("/sections/:id", a.DeleteSection)

			auth.GET("/translations/:entity/:id/:lang", a.GetManualTranslations)
			auth.PUT("/translations/:entity/:id/:lang", a.SaveManualTranslations)
			auth.POST("/translate", a.TranslateText)

			auth.GET("/contact-messages", a.ListContactMessages)
			auth.PUT("/contact-messages/:id/status", a.UpdateContactMessageStatus)
			auth.DELETE("/contact-messages/:id", a.DeleteContactMessage)

			auth.GET("/media", a.ListMedia)
			auth.POST("/media", a.UploadImage)
			auth.DELETE("/media/:id", a.DeleteMedia)
		}
	}
}
