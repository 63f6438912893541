package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/peterjhesselmann96-eng/werkzeugverwaltung/internal/events"
	"github.com/peterjhesselmann96-eng/werkzeugverwaltung/internal/middleware"
	"github.com/peterjhesselmann96-eng/werkzeugverwaltung/internal/store"

	"github.com/gin-gonic/gin"
)

// errBodyRequired marks a request without a usable JSON body.
var errBodyRequired = errors.New("request body required")

// Resource exposes one collection over GET, POST, PUT and DELETE.
type Resource[T store.Record[T]] struct {
	// Collection is the route and event topic name, e.g. "werkzeuge".
	Collection string
	// Entity is the singular name used in event types, e.g. "werkzeug".
	Entity string
	// Label is used in error messages, e.g. "Werkzeug not found".
	Label string

	Repo   store.Repository[T]
	Events events.Publisher

	// OnCreate adjusts a record before the store assigns its id.
	OnCreate func(T) T
}

func (r *Resource[T]) internalError(c *gin.Context, op string, err error) {
	log.Printf("%s %s [%s]: %v", r.Collection, op, c.GetString(middleware.RequestIDKey), err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

func (r *Resource[T]) publish(c *gin.Context, action string, id int, record any) {
	if r.Events == nil {
		return
	}
	r.Events.Publish(c.Request.Context(), events.New(r.Entity, r.Collection, action, id, record))
}

// readBody returns the trimmed JSON body. An empty body or a literal null is errBodyRequired.
func readBody(c *gin.Context) ([]byte, error) {
	raw, err := c.GetRawData()
	if err != nil {
		return nil, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, errBodyRequired
	}
	return raw, nil
}

// decodeRecord fills a T from a JSON object after removing the drop keys.
// Values that do not fit their field leave it zero; only a body that is not
// a JSON object is an error.
func decodeRecord[T any](raw []byte, drop ...string) (T, error) {
	var rec T
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return rec, err
	}
	for _, key := range drop {
		delete(fields, key)
	}
	clean, err := json.Marshal(fields)
	if err != nil {
		return rec, err
	}
	var typeErr *json.UnmarshalTypeError
	if err := json.Unmarshal(clean, &rec); err != nil && !errors.As(err, &typeErr) {
		return rec, err
	}
	return rec, nil
}

// parseID reads the leading integer of s after optional whitespace and sign,
// so "2abc" is 2. ok is false when s starts with no digits.
func parseID(s string) (id int, ok bool) {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0, false
	}
	id, err := strconv.Atoi(s[:end])
	return id, err == nil
}

// List handles GET /<collection>
// Returns every record as a JSON array.
func (r *Resource[T]) List(c *gin.Context) {
	records, err := r.Repo.List(c.Request.Context())
	if err != nil {
		r.internalError(c, "list", err)
		return
	}
	if records == nil {
		records = []T{}
	}
	c.JSON(http.StatusOK, records)
}

// Create handles POST /<collection>
// The store assigns the id; any client-supplied id is ignored.
func (r *Resource[T]) Create(c *gin.Context) {
	raw, err := readBody(c)
	if errors.Is(err, errBodyRequired) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request body required"})
		return
	}
	if err != nil {
		r.internalError(c, "create", err)
		return
	}
	rec, err := decodeRecord[T](raw, "id")
	if err != nil {
		r.internalError(c, "create", err)
		return
	}

	if r.OnCreate != nil {
		rec = r.OnCreate(rec)
	}

	created, err := r.Repo.Create(c.Request.Context(), rec)
	if err != nil {
		r.internalError(c, "create", err)
		return
	}

	r.publish(c, events.ActionCreated, created.RecordID(), created)
	c.JSON(http.StatusCreated, created)
}

// Replace handles PUT /<collection>
// The body must carry the id of an existing record and replaces it completely.
func (r *Resource[T]) Replace(c *gin.Context) {
	raw, err := readBody(c)
	if errors.Is(err, errBodyRequired) {
		c.JSON(http.StatusBadRequest, gin.H{"error": r.Label + " ID required"})
		return
	}
	if err != nil {
		r.internalError(c, "replace", err)
		return
	}
	// An id of the wrong JSON type decodes as zero and counts as missing.
	rec, err := decodeRecord[T](raw)
	if err != nil {
		r.internalError(c, "replace", err)
		return
	}
	if rec.RecordID() == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": r.Label + " ID required"})
		return
	}

	updated, err := r.Repo.Replace(c.Request.Context(), rec)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": r.Label + " not found"})
			return
		}
		r.internalError(c, "replace", err)
		return
	}

	r.publish(c, events.ActionUpdated, updated.RecordID(), updated)
	c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /<collection>?id=<int>
func (r *Resource[T]) Delete(c *gin.Context) {
	idParam := c.Query("id")
	if idParam == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": r.Label + " ID required"})
		return
	}

	// An id without leading digits cannot match any record.
	id, ok := parseID(idParam)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": r.Label + " not found"})
		return
	}

	if err := r.Repo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": r.Label + " not found"})
			return
		}
		r.internalError(c, "delete", err)
		return
	}

	r.publish(c, events.ActionDeleted, id, nil)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Register mounts the resource's handlers on group at path.
func (r *Resource[T]) Register(group gin.IRoutes, path string) {
	group.GET(path, r.List)
	group.POST(path, r.Create)
	group.PUT(path, r.Replace)
	group.DELETE(path, r.Delete)
}

// MethodNotAllowed answers verbs a collection does not support.
func MethodNotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
}

// NotFound answers unknown paths.
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
}
