// Package apitest builds gin engines around api modules for handler tests.
package apitest

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/familyhub/internal/http/api"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
	"github.com/Nixie-Tech-LLC/familyhub/internal/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	validation.RegisterGin()
}

// Router mounts modules under prefix with user already authenticated (nil for public routes).
func Router(prefix string, user *model.User, modules ...api.Module) *gin.Engine {
	r := gin.New()
	var mw []gin.HandlerFunc
	if user != nil {
		mw = append(mw, middleware.SetCurrentUser(user))
	}
	api.MountGroup(r, api.GroupConfig{Prefix: prefix, Middleware: mw}, modules...)
	return r
}

func AdminRouter(prefix string, admin *model.Admin, modules ...api.Module) *gin.Engine {
	r := gin.New()
	api.MountGroup(r, api.GroupConfig{
		Prefix:     prefix,
		Middleware: []gin.HandlerFunc{middleware.SetCurrentAdmin(admin)},
	}, modules...)
	return r
}

// Do sends body as JSON (nil for none) and records the response.
func Do(h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			panic(err)
		}
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// DoMultipart posts fields and, when data is non-nil, one file under fileField.
func DoMultipart(h http.Handler, method, path string, fields map[string]string, fileField, filename string, data []byte) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			panic(err)
		}
	}
	if data != nil {
		fw, err := mw.CreateFormFile(fileField, filename)
		if err != nil {
			panic(err)
		}
		if _, err := fw.Write(data); err != nil {
			panic(err)
		}
	}
	if err := mw.Close(); err != nil {
		panic(err)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func Decode(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst), w.Body.String())
}

// ErrorOf returns the "error" field of a JSON error response.
func ErrorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	Decode(t, w, &body)
	return body.Error
}

func IntPtr(v int) *int { return &v }

func StrPtr(v string) *string { return &v }

func Parent(id, familyID int) *model.User {
	return &model.User{ID: id, FamilyID: &familyID, Name: "Parent", Role: model.RoleParent}
}

func Child(id, familyID int) *model.User {
	return &model.User{ID: id, FamilyID: &familyID, Name: "Child", Role: model.RoleChild}
}
