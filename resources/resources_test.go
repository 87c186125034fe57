package resources_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/jrsteele09/tenant-console/api"
	"github.com/jrsteele09/tenant-console/internal/errors"
	"github.com/jrsteele09/tenant-console/resources"
	"github.com/jrsteele09/tenant-console/sessions"
	"github.com/jrsteele09/tenant-console/token"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (*resources.Service, *sessions.Session, *url.Values) {
	t.Helper()

	lastQuery := &url.Values{}
	mux := http.NewServeMux()
	jsonReply := func(w http.ResponseWriter, status int, body string) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
	mux.HandleFunc("GET /acme/domain", func(w http.ResponseWriter, r *http.Request) {
		*lastQuery = r.URL.Query()
		jsonReply(w, http.StatusOK, `{"status":true,"data":[{"id":"d1"}],"meta":{"limit":10,"offset":0,"total":1}}`)
	})
	mux.HandleFunc("GET /acme/domain/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "d1" {
			jsonReply(w, http.StatusNotFound, `{"status":false,"message":"Domain not found"}`)
			return
		}
		jsonReply(w, http.StatusOK, `{"status":true,"data":{"id":"d1"}}`)
	})
	mux.HandleFunc("GET /acme/role", func(w http.ResponseWriter, r *http.Request) {
		jsonReply(w, http.StatusForbidden, `{"status":false,"message":"Forbidden"}`)
	})
	mux.HandleFunc("GET /acme/event", func(w http.ResponseWriter, r *http.Request) {
		jsonReply(w, http.StatusOK, `{"status":false,"message":"event store offline"}`)
	})
	mux.HandleFunc("GET /acme/chat-template/domain/{id}/default", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "d1" {
			jsonReply(w, http.StatusNotFound, `{"status":false}`)
			return
		}
		jsonReply(w, http.StatusOK, `{"status":true,"data":{"id":"ct1","domain_id":"d1"}}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client, err := api.New(api.Options{BaseURL: srv.URL})
	require.NoError(t, err)
	sess := sessions.New(httptest.NewRecorder(), "acme", &token.Pair{AccessToken: "good"}, false)
	return resources.NewService(client), sess, lastQuery
}

func TestService_List(t *testing.T) {
	svc, sess, lastQuery := newService(t)

	list, err := svc.List(context.Background(), sess, "domain", url.Values{"name": {"like:ac"}, "limit": {"abc"}})
	require.NoError(t, err)
	require.JSONEq(t, `[{"id":"d1"}]`, string(list.Data))
	require.Equal(t, &api.Meta{Limit: 10, Offset: 0, Total: 1}, list.Meta)

	require.Equal(t, "10", lastQuery.Get("limit"))
	require.Equal(t, "created_at desc", lastQuery.Get("sort"))
	require.Equal(t, "like:ac", lastQuery.Get("name"))
}

func TestService_Errors(t *testing.T) {
	svc, sess, _ := newService(t)
	ctx := context.Background()

	t.Run("unknown resource", func(t *testing.T) {
		_, err := svc.List(ctx, sess, "secrets", nil)
		var se *resources.StatusError
		require.True(t, errors.As(err, &se))
		require.Equal(t, http.StatusNotFound, se.Status)
	})

	t.Run("forbidden passes through", func(t *testing.T) {
		_, err := svc.List(ctx, sess, "role", nil)
		var se *resources.StatusError
		require.True(t, errors.As(err, &se))
		require.Equal(t, http.StatusForbidden, se.Status)
		require.Equal(t, "Forbidden", se.Message)
	})

	t.Run("envelope failure", func(t *testing.T) {
		_, err := svc.List(ctx, sess, "event", nil)
		var se *resources.StatusError
		require.True(t, errors.As(err, &se))
		require.Equal(t, http.StatusBadGateway, se.Status)
		require.Equal(t, "event store offline", se.Message)
	})

	t.Run("missing item", func(t *testing.T) {
		_, err := svc.Get(ctx, sess, "domain", "nope")
		require.ErrorIs(t, err, errors.ErrNotFound)
	})
}

func TestService_Get(t *testing.T) {
	svc, sess, _ := newService(t)

	data, err := svc.Get(context.Background(), sess, "domain", "d1")
	require.NoError(t, err)
	require.JSONEq(t, `{"id":"d1"}`, string(data))
}

func TestService_DefaultChatTemplate(t *testing.T) {
	svc, sess, _ := newService(t)
	ctx := context.Background()

	data, err := svc.DefaultChatTemplate(ctx, sess, "d1")
	require.NoError(t, err)
	require.JSONEq(t, `{"id":"ct1","domain_id":"d1"}`, string(data))

	_, err = svc.DefaultChatTemplate(ctx, sess, "d2")
	var se *resources.StatusError
	require.True(t, errors.As(err, &se))
	require.Equal(t, http.StatusNotFound, se.Status)
	require.Equal(t, "Default chat template not found for this domain", se.Message)

	_, err = svc.DefaultChatTemplate(ctx, sess, " ")
	require.True(t, errors.As(err, &se))
	require.Equal(t, http.StatusBadRequest, se.Status)
}
