package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/hesabu/core/catalog"
)

var defaultQuizSize = 10

type catalogApi struct {
	cat *catalog.Catalog
}

func registerCatalogAPI(g *echo.Group, cat *catalog.Catalog) {
	api := catalogApi{cat: cat}

	g.GET("/lessons", api.lessons)
	g.GET("/achievements", api.achievements)
	g.GET("/quiz/random", api.randomQuiz)
}

func (api *catalogApi) lessons(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.cat.Lessons())
}

func (api *catalogApi) achievements(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.cat.Achievements())
}

// randomQuiz draws `count` distinct lessons at random; a missing or
// unusable count falls back to the default.
func (api *catalogApi) randomQuiz(ctx echo.Context) error {
	count := defaultQuizSize
	if v := ctx.QueryParam("count"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			count = n
		}
	}
	return ctx.JSON(http.StatusOK, api.cat.RandomQuiz(count))
}
