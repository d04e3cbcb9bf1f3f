// Package client talks to the ATS REST API on behalf of atsctl.
package client

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/fadilmartias/atobs/internal/config"
	"github.com/fadilmartias/atobs/internal/dto"
	"github.com/fadilmartias/atobs/internal/model"
	"github.com/fadilmartias/atobs/internal/response"
	"github.com/fadilmartias/atobs/internal/usecase"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

type envelope[T any] struct {
	Success    bool                 `json:"success"`
	Message    string               `json:"message"`
	Data       T                    `json:"data"`
	Pagination *response.Pagination `json:"pagination"`
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

type Client struct {
	http *resty.Client
}

func New(cfg *config.ClientConfig) *Client {
	http := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(30 * time.Second)
	if cfg.Token != "" {
		http.SetAuthToken(cfg.Token)
	}
	return &Client{http: http}
}

func (c *Client) SetToken(token string) {
	c.http.SetAuthToken(token)
}

func do[T any](ctx context.Context, req *resty.Request, method, path string) (*envelope[T], error) {
	var out envelope[T]
	resp, err := req.SetContext(ctx).SetResult(&out).Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		msg := gjson.GetBytes(resp.Body(), "message").String()
		if msg == "" {
			msg = resp.Status()
		}
		return nil, &APIError{Status: resp.StatusCode(), Message: msg}
	}
	return &out, nil
}

// Login exchanges credentials for an access token and keeps it for later
// calls.
func (c *Client) Login(ctx context.Context, email, password string) (*dto.LoginResponse, error) {
	req := c.http.R().SetBody(dto.LoginRequest{Email: email, Password: password})
	out, err := do[dto.LoginResponse](ctx, req, resty.MethodPost, "/auth/login")
	if err != nil {
		return nil, err
	}
	c.SetToken(out.Data.AccessToken)
	return &out.Data, nil
}

func (c *Client) Jobs(ctx context.Context, status, search string) ([]usecase.JobWithStats, error) {
	req := c.http.R()
	if status != "" {
		req.SetQueryParam("status", status)
	}
	if search != "" {
		req.SetQueryParam("search", search)
	}
	out, err := do[[]usecase.JobWithStats](ctx, req, resty.MethodGet, "/ats/jobs")
	if err != nil {
		return nil, err
	}
	return out.Data, nil
}

// ApplicationQuery mirrors the list filters of GET /ats/applications.
type ApplicationQuery struct {
	Stage      string
	JobID      string
	VisaStatus string
	Search     string
	Page       int
	Limit      int
}

func (c *Client) Applications(ctx context.Context, q ApplicationQuery) ([]usecase.ApplicationListItem, *response.Pagination, error) {
	params := map[string]string{}
	for k, v := range map[string]string{
		"stage":       q.Stage,
		"job_id":      q.JobID,
		"visa_status": q.VisaStatus,
		"search":      q.Search,
	} {
		if v != "" {
			params[k] = v
		}
	}
	if q.Page > 0 {
		params["page"] = strconv.Itoa(q.Page)
	}
	if q.Limit > 0 {
		params["limit"] = strconv.Itoa(q.Limit)
	}

	out, err := do[[]usecase.ApplicationListItem](ctx, c.http.R().SetQueryParams(params), resty.MethodGet, "/ats/applications")
	if err != nil {
		return nil, nil, err
	}
	return out.Data, out.Pagination, nil
}

func (c *Client) ChangeStage(ctx context.Context, applicationID, stage, note string) (*model.Application, error) {
	req := c.http.R().
		SetPathParam("id", applicationID).
		SetBody(dto.ChangeStageRequest{Stage: stage, NoteContent: note})
	out, err := do[model.Application](ctx, req, resty.MethodPatch, "/ats/applications/{id}/stage")
	if err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) Overview(ctx context.Context) (*usecase.Overview, error) {
	out, err := do[usecase.Overview](ctx, c.http.R(), resty.MethodGet, "/ats/analytics/overview")
	if err != nil {
		return nil, err
	}
	return &out.Data, nil
}
