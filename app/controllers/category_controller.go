package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/gracechapel/chapelcms/app/models"
	"github.com/gracechapel/chapelcms/app/repository"
	"github.com/gracechapel/chapelcms/internal/pkg/apperrors"
	"github.com/gracechapel/chapelcms/internal/pkg/slugify"
)

type CategoryController struct {
	categories repository.CategoryRepository
}

func NewCategoryController(categories repository.CategoryRepository) *CategoryController {
	return &CategoryController{categories: categories}
}

type categoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
}

func (cc *CategoryController) bind(c *fiber.Ctx) (*models.Category, error) {
	var req categoryRequest
	if err := bindJSON(c, &req, func() { req.Name = strings.TrimSpace(req.Name) }); err != nil {
		return nil, err
	}
	slug := slugify.Generate(req.Name)
	if slug == "" {
		return nil, apperrors.Validation("name must contain letters or digits")
	}
	return &models.Category{
		Name:        req.Name,
		Slug:        slug,
		Description: strings.TrimSpace(req.Description),
	}, nil
}

// HandleList returns every category with its published post count.
func (cc *CategoryController) HandleList(c *fiber.Ctx) error {
	categories, err := cc.categories.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(categories)
}

func (cc *CategoryController) HandleCreate(c *fiber.Ctx) error {
	category, err := cc.bind(c)
	if err != nil {
		return err
	}
	if err := cc.categories.Create(c.UserContext(), category); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Category created successfully",
		"categoryId": category.ID,
		"slug":       category.Slug,
	})
}

func (cc *CategoryController) HandleUpdate(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	category, err := cc.bind(c)
	if err != nil {
		return err
	}
	category.ID = id

	affected, err := cc.categories.Update(c.UserContext(), category)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.NotFound("Category not found")
	}
	return c.JSON(fiber.Map{"message": "Category updated successfully"})
}

// HandleDelete removes the category; its posts become uncategorized.
func (cc *CategoryController) HandleDelete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	affected, err := cc.categories.Delete(c.UserContext(), id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.NotFound("Category not found")
	}
	return c.JSON(fiber.Map{"message": "Category deleted successfully"})
}
