package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/transcripthub/backend/internal/store"
)

// folderRequest is the JSON body for folder create/update.
type folderRequest struct {
	Name     string `json:"name"`
	ParentID *int   `json:"parentId"`
}

// HandleListFolders returns folders. Without parameters it lists all;
// ?parentId= lists the children of one folder and ?roots=true the root
// folders, which is how the sidebar renders the tree level by level.
func (h *Handler) HandleListFolders(c echo.Context) error {
	ctx := c.Request().Context()

	if raw := c.QueryParam("parentId"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return NewBadRequestError("invalid parentId", err)
		}
		folders, err := h.catalog.ChildFolders(ctx, &id)
		if err != nil {
			return fromDomainError(err, "folder", raw)
		}
		return c.JSON(http.StatusOK, folders)
	}

	if c.QueryParam("roots") == "true" {
		folders, err := h.catalog.ChildFolders(ctx, nil)
		if err != nil {
			return fromDomainError(err, "folder", "")
		}
		return c.JSON(http.StatusOK, folders)
	}

	folders, err := h.catalog.Folders.List(ctx)
	if err != nil {
		return fromDomainError(err, "folder", "")
	}
	return c.JSON(http.StatusOK, folders)
}

// HandleCreateFolder creates a folder. An empty name is rejected before
// any store call.
func (h *Handler) HandleCreateFolder(c echo.Context) error {
	var req folderRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return NewValidationError("folder name must not be empty")
	}
	if err := h.catalog.ValidateFolderRef(c.Request().Context(), req.ParentID); err != nil {
		return fromDomainError(err, "folder", "")
	}

	folder, err := h.catalog.Folders.Create(c.Request().Context(), store.NewFolder{
		Name:     req.Name,
		ParentID: req.ParentID,
	})
	if err != nil {
		return fromDomainError(err, "folder", "")
	}
	return c.JSON(http.StatusCreated, folder)
}

// HandleUpdateFolder renames or re-parents a folder.
func (h *Handler) HandleUpdateFolder(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req struct {
		Name        *string `json:"name"`
		ParentID    *int    `json:"parentId"`
		ClearParent bool    `json:"clearParent"`
	}
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return NewValidationError("folder name must not be empty")
	}
	if !req.ClearParent {
		if err := h.catalog.ValidateFolderRef(c.Request().Context(), req.ParentID); err != nil {
			return fromDomainError(err, "folder", "")
		}
	}

	folder, err := h.catalog.Folders.Update(c.Request().Context(), id, store.FolderPatch{
		Name:        req.Name,
		ParentID:    req.ParentID,
		ClearParent: req.ClearParent,
	})
	if err != nil {
		return fromDomainError(err, "folder", c.Param("id"))
	}
	return c.JSON(http.StatusOK, folder)
}

// HandleDeleteFolder deletes an empty folder. A folder that still contains
// files is rejected with 409; the client clears its selection when the
// deleted folder was selected.
func (h *Handler) HandleDeleteFolder(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	ok, err := h.catalog.DeleteFolder(c.Request().Context(), id)
	if err != nil {
		return fromDomainError(err, "folder", c.Param("id"))
	}
	if !ok {
		return NewNotFoundError("folder", c.Param("id"))
	}
	return c.JSON(http.StatusOK, map[string]bool{"deleted": true})
}

// HandleFolderStats returns per-status file counts for one folder.
func (h *Handler) HandleFolderStats(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if _, err := h.catalog.Folders.Get(c.Request().Context(), id); err != nil {
		return fromDomainError(err, "folder", c.Param("id"))
	}
	stats, err := h.catalog.FolderStats(c.Request().Context(), id)
	if err != nil {
		return fromDomainError(err, "folder", c.Param("id"))
	}
	return c.JSON(http.StatusOK, stats)
}
