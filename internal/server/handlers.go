package server

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/valyala/fasthttp"

	"github.com/rgehrsitz/finhealth/internal/domain"
	"github.com/rgehrsitz/finhealth/internal/fields"
	"github.com/rgehrsitz/finhealth/internal/output"
)

type errorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type validateResponse struct {
	Valid  bool                     `json:"valid"`
	Issues []domain.ValidationIssue `json:"issues"`
}

type resolveRequest struct {
	Record domain.RawInputRecord `json:"record"`
	Fields []string              `json:"fields"`
}

// ResolvedField is the JSON view of one resolution
type ResolvedField struct {
	Field    string `json:"field"`
	Found    bool   `json:"found"`
	Kind     string `json:"kind,omitempty"`
	Value    string `json:"value,omitempty"`
	Key      string `json:"key,omitempty"`
	Strategy string `json:"strategy,omitempty"`
}

type resolveResponse struct {
	Values []ResolvedField `json:"values"`
}

type fieldDefinition struct {
	Name     string   `json:"name"`
	Kind     string   `json:"kind"`
	Monthly  bool     `json:"monthly"`
	Variants []string `json:"variants"`
}

var contentTypes = map[string]string{
	"json": "application/json",
	"csv":  "text/csv; charset=utf-8",
	"html": "text/html; charset=utf-8",
	"pdf":  "application/pdf",
	"txt":  "text/plain; charset=utf-8",
}

// handleScore scores the posted record. The response format follows the
// format query argument and defaults to the JSON report.
func (s *Server) handleScore(ctx *fasthttp.RequestCtx) {
	format := string(ctx.QueryArgs().Peek("format"))
	if format == "" {
		format = "json"
	}
	formatter := output.GetFormatterByName(format)
	if formatter == nil {
		s.writeError(ctx, fasthttp.StatusBadRequest, fmt.Sprintf("unknown format %q", format))
		return
	}

	record, err := decodeRecord(ctx.PostBody())
	if err != nil {
		s.writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}

	report := output.NewReport(string(ctx.QueryArgs().Peek("title")), s.scorer.Score(record)).
		WithIssues(s.parser.ValidateRecord(record)).
		WithAssumptions(output.Assumptions(s.scorer.Rules()))

	body, err := formatter.Format(report)
	if err != nil {
		s.writeError(ctx, fasthttp.StatusInternalServerError, "failed to render report: "+err.Error())
		return
	}
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetContentType(contentTypes[output.FileExtension(formatter)])
	ctx.SetBody(body)
}

func (s *Server) handleValidate(ctx *fasthttp.RequestCtx) {
	record, err := decodeRecord(ctx.PostBody())
	if err != nil {
		s.writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}
	issues := s.parser.ValidateRecord(record)
	if issues == nil {
		issues = []domain.ValidationIssue{}
	}
	s.writeJSON(ctx, fasthttp.StatusOK, validateResponse{Valid: !domain.HasErrors(issues), Issues: issues})
}

// handleResolve resolves the requested fields, or every canonical field when
// none are named
func (s *Server) handleResolve(ctx *fasthttp.RequestCtx) {
	body := ctx.PostBody()
	if len(bytes.TrimSpace(body)) == 0 {
		s.writeError(ctx, fasthttp.StatusBadRequest, "request body is empty")
		return
	}
	var req resolveRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(ctx, fasthttp.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	names := req.Fields
	if len(names) == 0 {
		for _, def := range fields.Definitions() {
			names = append(names, def.Name)
		}
	}

	resolver := s.scorer.Resolver()
	values := make([]ResolvedField, 0, len(names))
	for _, name := range names {
		values = append(values, NewResolvedField(name, resolver.Resolve(req.Record, []string{name}, fields.OptionsFor(name))))
	}
	s.writeJSON(ctx, fasthttp.StatusOK, resolveResponse{Values: values})
}

func (s *Server) handleFields(ctx *fasthttp.RequestCtx) {
	defs := fields.Definitions()
	out := make([]fieldDefinition, 0, len(defs))
	for _, d := range defs {
		out = append(out, fieldDefinition{Name: d.Name, Kind: d.Kind.String(), Monthly: d.Monthly, Variants: d.Variants})
	}
	s.writeJSON(ctx, fasthttp.StatusOK, out)
}

// NewResolvedField converts a resolution into its JSON view
func NewResolvedField(name string, v fields.Value) ResolvedField {
	rf := ResolvedField{Field: name, Found: v.Found()}
	if !rf.Found {
		return rf
	}
	rf.Value = v.String()
	rf.Key = v.Key
	rf.Strategy = string(v.Strategy)
	if v.Kind == fields.Text {
		rf.Kind = "text"
	} else {
		rf.Kind = "number"
	}
	return rf
}

func decodeRecord(body []byte) (domain.RawInputRecord, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("request body is empty")
	}
	var record domain.RawInputRecord
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}
	if record == nil {
		record = domain.RawInputRecord{}
	}
	return record, nil
}

func (s *Server) writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Errorf("failed to encode response: %v", err)
		ctx.Error(`{"status":500,"message":"failed to encode response"}`, fasthttp.StatusInternalServerError)
		ctx.SetContentType(contentTypes["json"])
		return
	}
	ctx.SetStatusCode(status)
	ctx.SetContentType(contentTypes["json"])
	ctx.SetBody(data)
}

func (s *Server) writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	s.writeJSON(ctx, status, errorResponse{Status: status, Message: message})
}

func (s *Server) methodNotAllowed(ctx *fasthttp.RequestCtx, allowed string) {
	ctx.Response.Header.Set(fasthttp.HeaderAllow, allowed)
	s.writeError(ctx, fasthttp.StatusMethodNotAllowed, "method not allowed")
}
