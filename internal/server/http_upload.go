package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	recruiterErrors "github.com/Elm-as/ai-recruitment-score-sub000/internal/errors"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/extract"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/licensing"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/utils"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/workspace"

	"go.opentelemetry.io/otel/attribute"
)

// ArchiveWarningHeader is set when a candidate was created but the original
// résumé could not be archived
const ArchiveWarningHeader = "X-Archive-Warning"

// multipartMemory is the part of the form kept in memory before spilling to disk
const multipartMemory = 8 << 20

// uploadCandidateHandler submits a candidate from a résumé file: the text is
// extracted for analysis and the original is archived when storage is set up.
func (s *Server) uploadCandidateHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.om.Tracer("recruiter.api").Start(r.Context(), "api.upload_candidate")
	defer span.End()

	if err := s.Workspace.Require(licensing.FeatureFileUpload); err != nil {
		s.writeError(w, err)
		return
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			err = recruiterErrors.NewValidationError(recruiterErrors.ErrCodeInvalidRequest,
				fmt.Sprintf("upload too large (limit is %s)", utils.FormatFileSize(s.MaxFileSize)), err)
		} else {
			err = recruiterErrors.NewValidationError(recruiterErrors.ErrCodeInvalidRequest, "invalid multipart form", err)
		}
		s.writeError(w, err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, recruiterErrors.NewValidationError(recruiterErrors.ErrCodeInvalidRequest, "file field is required", err))
		return
	}
	defer file.Close()

	var src io.Reader = file
	if s.MaxFileSize > 0 {
		src = io.LimitReader(file, s.MaxFileSize+1)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		s.writeError(w, recruiterErrors.NewIOError(recruiterErrors.ErrCodeFileNotReadable, "failed to read upload", err))
		return
	}
	if s.MaxFileSize > 0 && int64(len(data)) > s.MaxFileSize {
		s.writeError(w, recruiterErrors.NewValidationError(recruiterErrors.ErrCodeInvalidRequest,
			fmt.Sprintf("file exceeds %s", utils.FormatFileSize(s.MaxFileSize)), nil).
			WithContext("filename", header.Filename))
		return
	}
	span.SetAttributes(
		attribute.String("upload.filename", header.Filename),
		attribute.Int("upload.bytes", len(data)),
	)

	text, err := extract.Text(header.Filename, data)
	if err != nil {
		span.RecordError(err)
		s.writeError(w, err)
		return
	}

	positionID := r.PathValue("id")
	candidate, err := s.Workspace.SubmitCandidate(ctx, positionID, workspace.CandidateInput{
		Name:        r.FormValue("name"),
		Email:       r.FormValue("email"),
		ProfileText: text,
	})
	if err != nil && !workspace.IsSyncWarning(err) {
		span.RecordError(err)
		s.writeError(w, err)
		return
	}
	submitErr := err

	if s.Archive.Enabled() {
		key, archiveErr := s.Archive.Put(ctx, s.Archive.Key(positionID, candidate.ID, header.Filename),
			utils.ContentTypeFor(header.Filename), data)
		if archiveErr != nil {
			span.RecordError(archiveErr)
			s.Logger.LogError(archiveErr, "Failed to archive resume", "candidate_id", candidate.ID)
			w.Header().Set(ArchiveWarningHeader, "original file was not archived")
		} else {
			updated, keyErr := s.Workspace.SetResumeKey(ctx, candidate.ID, key)
			switch {
			case keyErr == nil || workspace.IsSyncWarning(keyErr):
				candidate = updated
				submitErr = errors.Join(submitErr, keyErr)
			default:
				s.Logger.LogError(keyErr, "Failed to link archived resume", "candidate_id", candidate.ID, "key", key)
				w.Header().Set(ArchiveWarningHeader, "original file was archived but not linked")
			}
		}
	}

	s.respond(w, http.StatusCreated, candidate, submitErr)
}

// resumeHandler streams the archived original résumé of a candidate
func (s *Server) resumeHandler(w http.ResponseWriter, r *http.Request) {
	candidate, err := s.Workspace.GetCandidate(r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	obj, err := s.Archive.Get(r.Context(), candidate.ResumeKey)
	if err != nil {
		s.writeError(w, err)
		return
	}

	contentType := obj.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(obj.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(obj.Data)
}
