package router

import (
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-gonic/gin"
	"github.com/user/modelcatalog/internal/handler"
	"github.com/user/modelcatalog/internal/middleware"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ==================== 公开页面 ====================
	r.GET("/", h.Home)
	r.GET("/api/catalog", h.CatalogAPI)

	// ==================== 后端资源 ====================
	// 读取与预检公开，写入需要后台会话或 Bearer 令牌
	res := r.Group("/api")
	res.Use(middleware.CORS())
	{
		res.GET("/models", h.ModelsGet)
		res.OPTIONS("/models", func(c *gin.Context) {})
		res.GET("/filters", h.FiltersGet)
		res.OPTIONS("/filters", func(c *gin.Context) {})

		write := res.Group("", middleware.RequireAdminAPI(h.Gate))
		write.POST("/models", h.ModelsCreate)
		write.DELETE("/models", h.ModelsDelete)
		write.PUT("/filters", h.FiltersPut)
	}

	// ==================== 登录 ====================
	r.GET("/admin/login", h.LoginPage)
	r.POST("/admin/login", h.Login)
	r.POST("/admin/logout", h.Logout)

	// ==================== 管理后台 ====================
	admin := r.Group("/admin")
	admin.Use(middleware.RequireAdmin(h.Gate))
	{
		admin.GET("", h.AdminDashboard)
		admin.POST("/models", h.AdminModelCreate)
		admin.DELETE("/models/:id", h.AdminModelDelete)
		admin.POST("/filters/:category", h.AdminFilterAdd)
		admin.DELETE("/filters/:category", h.AdminFilterRemove)
		admin.POST("/reload", h.AdminReload)
	}
}

// Pages 全部页面模板
var Pages = []string{"catalog", "admin", "login"}

// LoadTemplates 使用 multitemplate 加载模板，解决模板继承问题
func LoadTemplates(templatesDir string) multitemplate.Renderer {
	r := multitemplate.NewRenderer()

	// 获取布局和局部模板
	layouts, err := filepath.Glob(templatesDir + "/layouts/*.html")
	if err != nil {
		panic(err)
	}

	partials, err := filepath.Glob(templatesDir + "/partials/*.html")
	if err != nil {
		panic(err)
	}

	// 组装模板文件列表
	assemble := func(view string) []string {
		files := make([]string, 0)
		files = append(files, layouts...)
		files = append(files, partials...)
		files = append(files, view)
		return files
	}

	for _, page := range Pages {
		viewPath := templatesDir + "/pages/" + page + ".html"
		r.AddFromFilesFuncs(page+".html", FuncMap(), assemble(viewPath)...)
	}

	return r
}

// FuncMap 模板函数
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"dict": func(values ...interface{}) (map[string]interface{}, error) {
			if len(values)%2 != 0 {
				return nil, fmt.Errorf("invalid dict call")
			}
			dict := make(map[string]interface{}, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict keys must be strings")
				}
				dict[key] = values[i+1]
			}
			return dict, nil
		},
		// photoURL 照片可能是 data:image URL，html/template 默认会把它替换掉
		"photoURL": func(ref string) interface{} {
			if strings.HasPrefix(ref, "data:image/") {
				return template.URL(ref)
			}
			return ref
		},
		// queryEscape 查询参数值，hx-* 属性不会被 html/template 当作 URL 转义
		"queryEscape": url.QueryEscape,
		// cardNumber 卡片编号，如 007
		"cardNumber": func(id int) string {
			return fmt.Sprintf("%03d", id)
		},
		// plural 俄语数量词形：1 модель / 2 модели / 5 моделей
		"plural": func(n int, one, few, many string) string {
			n10, n100 := n%10, n%100
			switch {
			case n10 == 1 && n100 != 11:
				return one
			case n10 >= 2 && n10 <= 4 && (n100 < 12 || n100 > 14):
				return few
			}
			return many
		},
	}
}
