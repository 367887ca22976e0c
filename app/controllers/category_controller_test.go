package controllers

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gracechapel/chapelcms/app/models"
)

func TestCategoryLifecycle(t *testing.T) {
	repos := newTestRepos(t)
	cc := NewCategoryController(repos.Category)

	app := newTestApp()
	app.Get("/api/categories", cc.HandleList)
	admin := app.Group("/api/admin/categories", asEditor(1))
	admin.Post("/", cc.HandleCreate)
	admin.Put("/:id", cc.HandleUpdate)
	admin.Delete("/:id", cc.HandleDelete)

	resp, body := doJSON(t, app, http.MethodPost, "/api/admin/categories", fiber.Map{"name": "Youth Ministry", "description": "For teens"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "youth-ministry", body["slug"])
	id := uint(body["categoryId"].(float64))

	resp, _ = doJSON(t, app, http.MethodPost, "/api/admin/categories", fiber.Map{"name": "Youth  ministry"})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodPost, "/api/admin/categories", fiber.Map{"description": "nameless"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "name is required", body["error"])

	postID, err := repos.Post.Create(context.Background(), &models.BlogPost{
		Title: "Camp", Slug: "camp", Content: "x", Status: models.STATUS_PUBLISHED, CategoryID: &id,
	})
	require.NoError(t, err)

	_, list := doJSONList(t, app, "/api/categories")
	require.Len(t, list, 1)
	assert.EqualValues(t, 1, list[0]["post_count"])

	resp, _ = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/admin/categories/%d", id), fiber.Map{"name": "Youth"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	cat, err := repos.Category.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "youth", cat.Slug)

	resp, _ = doJSON(t, app, http.MethodPut, "/api/admin/categories/999", fiber.Map{"name": "Nobody"})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/admin/categories/%d", id), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/admin/categories/%d", id), nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	post, err := repos.Post.GetByID(context.Background(), postID)
	require.NoError(t, err)
	assert.Nil(t, post.CategoryID, "posts outlive their category")
}
