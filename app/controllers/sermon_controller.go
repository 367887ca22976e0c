package controllers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/gracechapel/chapelcms/app/models"
	"github.com/gracechapel/chapelcms/app/repository"
	"github.com/gracechapel/chapelcms/internal/pkg/apperrors"
	"github.com/gracechapel/chapelcms/internal/pkg/slugify"
)

// SermonController serves sermons publicly and manages them for admins.
type SermonController struct {
	sermons repository.SermonRepository
}

func NewSermonController(sermons repository.SermonRepository) *SermonController {
	return &SermonController{sermons: sermons}
}

type sermonRequest struct {
	Title         string     `json:"title" validate:"required,max=255"`
	Speaker       string     `json:"speaker" validate:"max=150"`
	Series        string     `json:"series" validate:"max=150"`
	Scripture     string     `json:"scripture" validate:"max=255"`
	Description   string     `json:"description"`
	AudioURL      string     `json:"audio_url" validate:"omitempty,url,max=500"`
	VideoURL      string     `json:"video_url" validate:"omitempty,url,max=500"`
	FeaturedImage string     `json:"featured_image" validate:"omitempty,url,max=500"`
	SermonDate    *time.Time `json:"sermon_date"`
	Status        string     `json:"status" validate:"omitempty,oneof=draft published scheduled"`
}

func (sc *SermonController) bind(c *fiber.Ctx) (*models.Sermon, error) {
	var req sermonRequest
	if err := bindJSON(c, &req, func() { req.Title = strings.TrimSpace(req.Title) }); err != nil {
		return nil, err
	}
	slug := slugify.Generate(req.Title)
	if slug == "" {
		return nil, apperrors.Validation("title must contain letters or digits")
	}
	if req.Status == "" {
		req.Status = models.STATUS_DRAFT
	}
	return &models.Sermon{
		Title:         req.Title,
		Slug:          slug,
		Speaker:       strings.TrimSpace(req.Speaker),
		Series:        strings.TrimSpace(req.Series),
		Scripture:     strings.TrimSpace(req.Scripture),
		Description:   req.Description,
		AudioURL:      req.AudioURL,
		VideoURL:      req.VideoURL,
		FeaturedImage: req.FeaturedImage,
		SermonDate:    req.SermonDate,
		Status:        req.Status,
	}, nil
}

func sermonListOptions(c *fiber.Ctx, status string) repository.SermonListOptions {
	return repository.SermonListOptions{
		Page:      c.QueryInt("page", 1),
		Limit:     c.QueryInt("limit", repository.DefaultPageSize),
		Status:    status,
		Speaker:   c.Query("speaker"),
		Series:    c.Query("series"),
		Search:    c.Query("search"),
		SortOrder: c.Query("sortOrder", "desc"),
	}
}

func (sc *SermonController) list(c *fiber.Ctx, opts repository.SermonListOptions) error {
	ctx := c.UserContext()
	sermons, err := sc.sermons.List(ctx, opts)
	if err != nil {
		return err
	}
	total, err := sc.sermons.Count(ctx, opts)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"sermons":    sermons,
		"pagination": repository.NewPagination(opts.Page, opts.Limit, total),
	})
}

// HandleList lists published sermons.
func (sc *SermonController) HandleList(c *fiber.Ctx) error {
	return sc.list(c, sermonListOptions(c, models.STATUS_PUBLISHED))
}

// HandleGet resolves a published sermon by id or slug.
func (sc *SermonController) HandleGet(c *fiber.Ctx) error {
	ctx := c.UserContext()
	ident := c.Params("idOrSlug")

	var (
		sermon *models.Sermon
		err    error
	)
	if id, ok := parseID(ident); ok {
		sermon, err = sc.sermons.GetByID(ctx, id)
	} else {
		sermon, err = sc.sermons.GetBySlug(ctx, ident)
	}
	if err != nil {
		return err
	}
	if !sermon.IsPublished() {
		return apperrors.NotFound("Sermon not found")
	}
	return c.JSON(sermon)
}

func (sc *SermonController) HandleListen(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	listens, err := sc.sermons.IncrementListens(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"listens": listens})
}

func (sc *SermonController) HandleDownload(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	downloads, err := sc.sermons.IncrementDownloads(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"downloads": downloads})
}

// HandleAdminList lists sermons of every status unless filtered.
func (sc *SermonController) HandleAdminList(c *fiber.Ctx) error {
	return sc.list(c, sermonListOptions(c, c.Query("status", "all")))
}

func (sc *SermonController) HandleAdminGet(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	sermon, err := sc.sermons.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(sermon)
}

func (sc *SermonController) HandleCreate(c *fiber.Ctx) error {
	sermon, err := sc.bind(c)
	if err != nil {
		return err
	}
	if err := sc.sermons.Create(c.UserContext(), sermon); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Sermon created successfully",
		"sermonId": sermon.ID,
	})
}

func (sc *SermonController) HandleUpdate(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	sermon, err := sc.bind(c)
	if err != nil {
		return err
	}
	sermon.ID = id

	affected, err := sc.sermons.Update(c.UserContext(), sermon)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.NotFound("Sermon not found")
	}
	return c.JSON(fiber.Map{"message": "Sermon updated successfully"})
}

func (sc *SermonController) HandleDelete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	affected, err := sc.sermons.Delete(c.UserContext(), id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.NotFound("Sermon not found")
	}
	return c.JSON(fiber.Map{"message": "Sermon deleted successfully"})
}
