package app

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ozherelyev/cinema-ticketing/api"
	"github.com/ozherelyev/cinema-ticketing/internal/domain"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	maxPosterSize = 10 << 20 // 10 MB
)

func (app *Application) ListShows(w http.ResponseWriter, r *http.Request) {
	pagination := domain.Pagination{
		Page:     app.readIntQuery(r, "page", DefaultPage),
		PageSize: app.readIntQuery(r, "pageSize", DefaultPageSize),
	}

	if pagination.Page < 1 || pagination.PageSize < 1 || pagination.PageSize > MaxPageSize {
		app.badRequestResponse(w, r, fmt.Errorf("invalid pagination parameters"))
		return
	}

	shows, metadata, err := app.showRepo.GetAll(r.Context(), pagination)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.ShowListResponse{
		Shows:    toShowResponses(shows),
		Metadata: toApiMetadata(metadata),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetShow(w http.ResponseWriter, r *http.Request) {
	showID, err := app.readIDParam(r, "showId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	show, err := app.showRepo.GetByID(r.Context(), showID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	err = app.writeJSON(w, http.StatusOK, toShowResponse(show), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetShowPoster(w http.ResponseWriter, r *http.Request) {
	showID, err := app.readIDParam(r, "showId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	show, err := app.showRepo.GetByID(r.Context(), showID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	if show.PosterName == nil {
		app.notFoundResponse(w, r)
		return
	}

	f, err := app.posters.Open(*show.PosterName)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	io.Copy(w, f)
}

// CreateShow adds a show from a multipart form (name, description and an
// optional poster file).
func (app *Application) CreateShow(w http.ResponseWriter, r *http.Request) {
	err := r.ParseMultipartForm(maxPosterSize)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	show := &domain.Show{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
	}

	if show.Name == "" {
		app.badRequestResponse(w, r, fmt.Errorf("show name is required"))
		return
	}

	posterName, ok := app.savePosterUpload(w, r)
	if !ok {
		return
	}
	show.PosterName = posterName

	err = app.showRepo.Create(r.Context(), show)
	if err != nil {
		if posterName != nil {
			app.posters.Remove(*posterName)
		}

		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, toShowResponse(show), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// UpdateShow edits a show from a multipart form. Uploading a new poster
// replaces the old asset; the previous file is deleted once the record
// update has gone through.
func (app *Application) UpdateShow(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	showID, err := app.readIDParam(r, "showId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = r.ParseMultipartForm(maxPosterSize)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	show, err := app.showRepo.GetByID(r.Context(), showID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	if name := r.FormValue("name"); name != "" {
		show.Name = name
	}
	if description := r.FormValue("description"); description != "" {
		show.Description = description
	}

	oldPoster := show.PosterName

	newPoster, ok := app.savePosterUpload(w, r)
	if !ok {
		return
	}
	if newPoster != nil {
		show.PosterName = newPoster
	}

	err = app.showRepo.Update(r.Context(), show)
	if err != nil {
		if newPoster != nil {
			app.posters.Remove(*newPoster)
		}

		switch {
		case errors.Is(err, domain.ErrEditConflict):
			app.editConflictResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	if newPoster != nil && oldPoster != nil {
		if err := app.posters.Remove(*oldPoster); err != nil {
			logger.Error("failed to remove replaced poster", "error", err, "poster", *oldPoster)
		}
	}

	err = app.writeJSON(w, http.StatusOK, toShowResponse(show), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// DeleteShow withdraws a show: its tickets go first (same transaction as
// the show row), then the poster asset.
func (app *Application) DeleteShow(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	showID, err := app.readIDParam(r, "showId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	show, err := app.showRepo.GetByID(r.Context(), showID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	err = app.showRepo.Delete(r.Context(), showID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	if show.PosterName != nil {
		if err := app.posters.Remove(*show.PosterName); err != nil {
			logger.Error("failed to remove poster of deleted show", "error", err, "poster", *show.PosterName)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

// savePosterUpload stores the optional "poster" form file and returns its
// stored name. It writes the error response itself on failure.
func (app *Application) savePosterUpload(w http.ResponseWriter, r *http.Request) (*string, bool) {
	file, header, err := r.FormFile("poster")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, true
		}

		app.badRequestResponse(w, r, err)
		return nil, false
	}
	defer file.Close()

	name, err := app.posters.Save(header.Filename, file)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return nil, false
	}

	return &name, true
}

func toShowResponse(show *domain.Show) api.ShowResponse {
	return api.ShowResponse{
		Id:          show.ID,
		Name:        show.Name,
		Description: show.Description,
		PosterName:  show.PosterName,
		CreatedAt:   show.CreatedAt,
		Version:     show.Version,
	}
}

func toShowResponses(shows []domain.Show) []api.ShowResponse {
	responses := make([]api.ShowResponse, len(shows))
	for i := range shows {
		responses[i] = toShowResponse(&shows[i])
	}

	return responses
}

func toApiMetadata(metadata *domain.Metadata) api.Metadata {
	if metadata == nil {
		return api.Metadata{}
	}

	return api.Metadata{
		CurrentPage:  metadata.CurrentPage,
		FirstPage:    metadata.FirstPage,
		LastPage:     metadata.LastPage,
		PageSize:     metadata.PageSize,
		TotalRecords: metadata.TotalRecords,
	}
}
