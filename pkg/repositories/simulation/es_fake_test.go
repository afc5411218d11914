package simulation

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// fakeCluster is a minimal in-process Elasticsearch serving the requests the repository makes
type fakeCluster struct {
	mu      sync.Mutex
	indices map[string]map[string]json.RawMessage
	order   map[string][]string
	bulks   int
	server  *httptest.Server
}

func newFakeCluster() *fakeCluster {
	c := &fakeCluster{
		indices: make(map[string]map[string]json.RawMessage),
		order:   make(map[string][]string),
	}
	c.server = httptest.NewServer(http.HandlerFunc(c.handle))
	return c
}

func (c *fakeCluster) URL() string { return c.server.URL }

func (c *fakeCluster) Close() { c.server.Close() }

func (c *fakeCluster) docCount(index string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.indices[index])
}

func (c *fakeCluster) doc(index, id string) json.RawMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.indices[index][id]
}

func (c *fakeCluster) reply(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		json.NewEncoder(w).Encode(body)
	}
}

func (c *fakeCluster) put(index, id string, doc json.RawMessage) {
	if _, ok := c.indices[index]; !ok {
		c.indices[index] = make(map[string]json.RawMessage)
	}
	if _, exists := c.indices[index][id]; !exists {
		c.order[index] = append(c.order[index], id)
	}
	c.indices[index][id] = doc
}

func (c *fakeCluster) handle(w http.ResponseWriter, req *http.Request) {
	c.mu.Lock()
	defer c.mu.Unlock()

	parts := strings.Split(strings.Trim(req.URL.Path, "/"), "/")
	body, _ := io.ReadAll(req.Body)

	switch {
	case parts[0] == "_bulk" && req.Method == http.MethodPost:
		c.bulks++
		scanner := bufio.NewScanner(bytes.NewReader(body))
		scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
		for scanner.Scan() {
			var action struct {
				Index struct {
					Index string `json:"_index"`
					ID    string `json:"_id"`
				} `json:"index"`
			}
			if err := json.Unmarshal(scanner.Bytes(), &action); err != nil {
				c.reply(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
				return
			}
			if !scanner.Scan() {
				c.reply(w, http.StatusBadRequest, map[string]string{"error": "missing source"})
				return
			}
			c.put(action.Index.Index, action.Index.ID, append(json.RawMessage{}, scanner.Bytes()...))
		}
		c.reply(w, http.StatusOK, map[string]interface{}{"errors": false, "items": []interface{}{}})

	case len(parts) == 1 && req.Method == http.MethodHead:
		if _, ok := c.indices[parts[0]]; ok {
			c.reply(w, http.StatusOK, nil)
			return
		}
		c.reply(w, http.StatusNotFound, nil)

	case len(parts) == 1 && req.Method == http.MethodPut:
		c.indices[parts[0]] = make(map[string]json.RawMessage)
		c.reply(w, http.StatusOK, map[string]interface{}{"acknowledged": true, "index": parts[0]})

	case len(parts) == 3 && parts[1] == "_doc" && (req.Method == http.MethodPut || req.Method == http.MethodPost):
		c.put(parts[0], parts[2], json.RawMessage(body))
		c.reply(w, http.StatusCreated, map[string]interface{}{"_index": parts[0], "_id": parts[2], "result": "created"})

	case len(parts) == 3 && parts[1] == "_doc" && req.Method == http.MethodGet:
		doc, ok := c.indices[parts[0]][parts[2]]
		if !ok {
			c.reply(w, http.StatusNotFound, map[string]interface{}{"_index": parts[0], "_id": parts[2], "found": false})
			return
		}
		c.reply(w, http.StatusOK, map[string]interface{}{"_index": parts[0], "_id": parts[2], "found": true, "_source": doc})

	case len(parts) == 2 && parts[1] == "_search":
		c.search(w, req, parts[0], body)

	default:
		c.reply(w, http.StatusBadRequest, map[string]string{"error": "unsupported request " + req.Method + " " + req.URL.Path})
	}
}

// search supports a match_all or a single term filter on mode, sorted newest first
func (c *fakeCluster) search(w http.ResponseWriter, req *http.Request, index string, body []byte) {
	var query struct {
		Query struct {
			Term map[string]string `json:"term"`
		} `json:"query"`
	}
	if err := json.Unmarshal(body, &query); err != nil {
		c.reply(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	type hit struct {
		id          string
		completedAt time.Time
		source      json.RawMessage
	}
	var hits []hit
	for _, id := range c.order[index] {
		doc := c.indices[index][id]
		var fields struct {
			Mode        string    `json:"mode"`
			CompletedAt time.Time `json:"completed_at"`
		}
		json.Unmarshal(doc, &fields)
		if mode, ok := query.Query.Term["mode"]; ok && fields.Mode != mode {
			continue
		}
		hits = append(hits, hit{id: id, completedAt: fields.CompletedAt, source: doc})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].completedAt.Equal(hits[j].completedAt) {
			return hits[i].id < hits[j].id
		}
		return hits[i].completedAt.After(hits[j].completedAt)
	})

	if size, err := strconv.Atoi(req.URL.Query().Get("size")); err == nil && size < len(hits) {
		hits = hits[:size]
	}

	out := make([]map[string]interface{}, 0, len(hits))
	for _, h := range hits {
		out = append(out, map[string]interface{}{"_index": index, "_id": h.id, "_source": h.source})
	}
	c.reply(w, http.StatusOK, map[string]interface{}{
		"hits": map[string]interface{}{
			"total": map[string]interface{}{"value": len(out), "relation": "eq"},
			"hits":  out,
		},
	})
}
