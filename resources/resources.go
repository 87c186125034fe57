// Package resources loads the backend's admin resources (domains, users,
// roles, ...) on behalf of a session.
package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/jrsteele09/tenant-console/api"
	"github.com/jrsteele09/tenant-console/internal/errors"
	"github.com/jrsteele09/tenant-console/sessions"
)

const ChatTemplate = "chat-template"

// Names lists the resources the console proxies
var Names = []string{"domain", "user", "role", "permission", "follower", "event", ChatTemplate}

func Known(resource string) bool {
	return slices.Contains(Names, resource)
}

// StatusError is a backend answer that is not a usable result. Status is
// the HTTP status the console should answer with.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *StatusError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return errors.ErrUnauthenticated
	case http.StatusNotFound:
		return errors.ErrNotFound
	}
	return nil
}

// List is one page of a resource list
type List struct {
	Data json.RawMessage `json:"data"`
	Meta *api.Meta       `json:"meta"`
}

type Service struct {
	client *api.Client
}

func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// List loads one page of resource. q is the inbound query, normalised with
// BuildQuery before it is forwarded.
func (s *Service) List(ctx context.Context, sess *sessions.Session, resource string, q url.Values) (*List, error) {
	if !Known(resource) {
		return nil, &StatusError{Status: http.StatusNotFound, Message: "Unknown resource"}
	}
	env, err := s.load(ctx, sess, resource+"?"+BuildQuery(q), "Failed to load "+resource)
	if err != nil {
		return nil, err
	}

	list := &List{Data: env.Data, Meta: env.Meta}
	if len(list.Data) == 0 {
		list.Data = json.RawMessage("[]")
	}
	if list.Meta == nil {
		page := ParsePage(q)
		list.Meta = &api.Meta{Limit: page.Limit, Offset: page.Offset}
	}
	return list, nil
}

// Get loads a single resource by id
func (s *Service) Get(ctx context.Context, sess *sessions.Session, resource, id string) (json.RawMessage, error) {
	if !Known(resource) {
		return nil, &StatusError{Status: http.StatusNotFound, Message: "Unknown resource"}
	}
	if strings.TrimSpace(id) == "" {
		return nil, &StatusError{Status: http.StatusBadRequest, Message: "ID is required"}
	}
	env, err := s.load(ctx, sess, resource+"/"+url.PathEscape(id), "Failed to load "+resource)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

// DefaultChatTemplate loads the chat template a domain uses by default
func (s *Service) DefaultChatTemplate(ctx context.Context, sess *sessions.Session, domainID string) (json.RawMessage, error) {
	if strings.TrimSpace(domainID) == "" {
		return nil, &StatusError{Status: http.StatusBadRequest, Message: "Domain ID is required"}
	}
	env, err := s.load(ctx, sess, "chat-template/domain/"+url.PathEscape(domainID)+"/default", "Failed to fetch default chat template")
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.Status == http.StatusNotFound {
			se.Message = "Default chat template not found for this domain"
		}
		return nil, err
	}
	return env.Data, nil
}

func (s *Service) load(ctx context.Context, sess *sessions.Session, endpoint, failure string) (*api.Envelope, error) {
	resp, err := s.client.Get(ctx, sess, endpoint)
	if err != nil {
		return nil, err
	}

	env, envErr := resp.Envelope()
	if !resp.OK {
		msg := failure
		if envErr == nil {
			msg = env.ErrorMessage(failure)
		}
		return nil, &StatusError{Status: resp.Status, Message: msg}
	}
	if envErr != nil {
		return nil, errors.Wrapf(envErr, "[resources load] %s", endpoint)
	}
	if env.Failed() {
		return nil, &StatusError{Status: http.StatusBadGateway, Message: env.ErrorMessage(failure)}
	}
	return env, nil
}
