package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/Elm-as/ai-recruitment-score-sub000/internal/config"
	recruiterErrors "github.com/Elm-as/ai-recruitment-score-sub000/internal/errors"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/optimizer"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/types"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/workspace"

	"go.opentelemetry.io/otel/attribute"
)

func (s *Server) optimizeHandler(w http.ResponseWriter, r *http.Request) {
	var req OptimizeRequest
	if err := parseJSONRequest(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		s.writeError(w, validationError("text field is required"))
		return
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 && s.AppConfig != nil {
		maxTokens = s.AppConfig.App.MaxTokens
	}
	if maxTokens <= 0 {
		maxTokens = optimizer.DefaultMaxTokens
	}

	result := optimizer.Report(req.Text, maxTokens)
	s.Workspace.RecordOptimization(r.Context())
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) listPositionsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Workspace.ListPositions())
}

func (s *Server) createPositionHandler(w http.ResponseWriter, r *http.Request) {
	var req PositionRequest
	if err := parseJSONRequest(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	position, err := s.Workspace.CreatePosition(r.Context(), workspace.PositionInput(req))
	s.respond(w, http.StatusCreated, position, err)
}

func (s *Server) getPositionHandler(w http.ResponseWriter, r *http.Request) {
	position, err := s.Workspace.GetPosition(r.PathValue("id"))
	s.respond(w, http.StatusOK, position, err)
}

func (s *Server) updatePositionHandler(w http.ResponseWriter, r *http.Request) {
	var req PositionRequest
	if err := parseJSONRequest(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	position, err := s.Workspace.UpdatePosition(r.Context(), r.PathValue("id"), workspace.PositionInput(req))
	s.respond(w, http.StatusOK, position, err)
}

func (s *Server) deletePositionHandler(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusNoContent, nil, s.Workspace.DeletePosition(r.Context(), r.PathValue("id")))
}

func (s *Server) rankedViewHandler(w http.ResponseWriter, r *http.Request) {
	status, err := statusParam(r.URL.Query().Get("status"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	view, err := s.Workspace.RankedView(r.PathValue("id"), status)
	s.respond(w, http.StatusOK, view, err)
}

func (s *Server) submitCandidateHandler(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		s.uploadCandidateHandler(w, r)
		return
	}

	var req CandidateRequest
	if err := parseJSONRequest(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	candidate, err := s.Workspace.SubmitCandidate(r.Context(), r.PathValue("id"), workspace.CandidateInput(req))
	s.respond(w, http.StatusCreated, candidate, err)
}

func (s *Server) moveHandler(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	if err := parseJSONRequest(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	status, err := statusParam(req.Status)
	if err != nil {
		s.writeError(w, err)
		return
	}
	view, err := s.Workspace.Reorder(r.Context(), r.PathValue("id"), status, req.From, req.To)
	s.respond(w, http.StatusOK, view, err)
}

func (s *Server) resetOrderHandler(w http.ResponseWriter, r *http.Request) {
	view, err := s.Workspace.ResetOrder(r.Context(), r.PathValue("id"))
	s.respond(w, http.StatusOK, view, err)
}

func (s *Server) listPresetsHandler(w http.ResponseWriter, r *http.Request) {
	list, err := s.Workspace.ListPresets(r.PathValue("id"))
	s.respond(w, http.StatusOK, list, err)
}

func (s *Server) savePresetHandler(w http.ResponseWriter, r *http.Request) {
	var req PresetRequest
	if err := parseJSONRequest(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	preset, err := s.Workspace.SavePreset(r.Context(), r.PathValue("id"), req.Name)
	s.respond(w, http.StatusCreated, preset, err)
}

func (s *Server) updatePresetHandler(w http.ResponseWriter, r *http.Request) {
	preset, err := s.Workspace.UpdatePreset(r.Context(), r.PathValue("id"))
	s.respond(w, http.StatusOK, preset, err)
}

func (s *Server) deletePresetHandler(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusNoContent, nil, s.Workspace.DeletePreset(r.Context(), r.PathValue("id")))
}

func (s *Server) applyPresetHandler(w http.ResponseWriter, r *http.Request) {
	view, err := s.Workspace.ApplyPreset(r.Context(), r.PathValue("id"))
	s.respond(w, http.StatusOK, view, err)
}

func (s *Server) getCandidateHandler(w http.ResponseWriter, r *http.Request) {
	candidate, err := s.Workspace.GetCandidate(r.PathValue("id"))
	s.respond(w, http.StatusOK, candidate, err)
}

func (s *Server) deleteCandidateHandler(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusNoContent, nil, s.Workspace.DeleteCandidate(r.Context(), r.PathValue("id")))
}

func (s *Server) setStatusHandler(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if err := parseJSONRequest(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	candidate, err := s.Workspace.SetCandidateStatus(r.Context(), r.PathValue("id"), types.CandidateStatus(req.Status))
	s.respond(w, http.StatusOK, candidate, err)
}

func (s *Server) interviewQuestionsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.om.Tracer("recruiter.api").Start(r.Context(), "api.interview_questions")
	defer span.End()

	var req InterviewQuestionsRequest
	if r.ContentLength != 0 {
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			s.writeError(w, err)
			return
		}
	}

	in, err := s.Workspace.InterviewInput(r.PathValue("id"), req.Count)
	if err != nil {
		span.RecordError(err)
		s.writeError(w, err)
		return
	}
	span.SetAttributes(attribute.Int("interview.count", in.Count))

	var out types.InterviewQuestions
	err = s.om.TrackAIOperation(ctx, config.OperationInterview, func(ctx context.Context) (*types.TokenUsage, error) {
		var usage *types.TokenUsage
		var err error
		out, usage, err = s.Assistants.Interview.GenerateInterviewQuestions(ctx, in)
		return usage, err
	})
	if err != nil {
		span.RecordError(err)
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) emailHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.om.Tracer("recruiter.api").Start(r.Context(), "api.email")
	defer span.End()

	var req EmailRequest
	if err := parseJSONRequest(r, &req); err != nil {
		span.RecordError(err)
		s.writeError(w, err)
		return
	}

	in, err := s.Workspace.EmailInput(r.PathValue("id"), types.EmailKind(req.Kind), req.Notes)
	if err != nil {
		span.RecordError(err)
		s.writeError(w, err)
		return
	}
	span.SetAttributes(attribute.String("email.kind", string(in.Kind)))

	var out types.EmailDraft
	err = s.om.TrackAIOperation(ctx, config.OperationEmail, func(ctx context.Context) (*types.TokenUsage, error) {
		var usage *types.TokenUsage
		var err error
		out, usage, err = s.Assistants.Email.DraftEmail(ctx, in)
		return usage, err
	})
	if err != nil {
		span.RecordError(err)
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) scoreAnswerHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.om.Tracer("recruiter.api").Start(r.Context(), "api.score_answer")
	defer span.End()

	var req ScoreAnswerRequest
	if err := parseJSONRequest(r, &req); err != nil {
		span.RecordError(err)
		s.writeError(w, err)
		return
	}

	in, err := s.Workspace.AnswerInput(req.PositionID, req.Question, req.Answer)
	if err != nil {
		span.RecordError(err)
		s.writeError(w, err)
		return
	}
	span.SetAttributes(attribute.Int("request.answer_length", len(in.Answer)))

	var out types.AnswerScore
	err = s.om.TrackAIOperation(ctx, config.OperationAnswer, func(ctx context.Context) (*types.TokenUsage, error) {
		var usage *types.TokenUsage
		var err error
		out, usage, err = s.Assistants.Answer.ScoreAnswer(ctx, in)
		return usage, err
	})
	if err != nil {
		span.RecordError(err)
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// statusParam validates an optional status filter
func statusParam(raw string) (types.CandidateStatus, error) {
	if raw == "" {
		return "", nil
	}
	status, ok := types.ParseCandidateStatus(raw)
	if !ok {
		return "", validationError("unknown candidate status: " + raw)
	}
	return status, nil
}

func validationError(message string) error {
	return recruiterErrors.NewValidationError(recruiterErrors.ErrCodeInvalidRequest, message, nil)
}
