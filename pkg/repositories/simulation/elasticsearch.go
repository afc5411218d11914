package simulation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/fadedpez/aceshigh/internal/logging"
	"github.com/fadedpez/aceshigh/pkg/entities"
)

// maxSearchSize is the default index.max_result_window
const maxSearchSize = 10000

// ElasticsearchConfig holds configuration options for the Elasticsearch repository
type ElasticsearchConfig struct {
	URL         string
	Username    string
	Password    string
	IndexPrefix string
	BatchSize   int // Batch size for bulk operations
	Logger      *logging.Logger
}

// DefaultElasticsearchConfig returns a default configuration for Elasticsearch
func DefaultElasticsearchConfig() *ElasticsearchConfig {
	return &ElasticsearchConfig{
		URL:         "http://localhost:9200",
		IndexPrefix: "aceshigh",
		BatchSize:   500,
	}
}

// ElasticsearchRepository indexes runs and collected hands in Elasticsearch on top of a
// base repository. Writes go to both, run reads are served from the runs index and
// crib hands are read back from the base repository.
type ElasticsearchRepository struct {
	baseRepo    Repository
	client      *elasticsearch.Client
	config      *ElasticsearchConfig
	indexPrefix string
	logger      *logging.Logger

	mu       sync.Mutex
	sequence map[string]int // next crib hand sequence number per run
}

// NewElasticsearchRepository creates a new Elasticsearch repository
func NewElasticsearchRepository(baseRepo Repository, config *ElasticsearchConfig) (*ElasticsearchRepository, error) {
	if baseRepo == nil {
		return nil, fmt.Errorf("base repository cannot be nil")
	}
	if config == nil {
		config = DefaultElasticsearchConfig()
	}

	// Configure the Elasticsearch client
	cfg := elasticsearch.Config{
		Addresses: []string{config.URL},
	}

	// Add authentication if provided
	if config.Username != "" && config.Password != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	// Create the client
	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating Elasticsearch client: %w", err)
	}

	// Set default values if not provided
	if config.IndexPrefix == "" {
		config.IndexPrefix = "aceshigh"
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 500
	}
	logger := config.Logger
	if logger == nil {
		logger = logging.Default
	}

	repo := &ElasticsearchRepository{
		baseRepo:    baseRepo,
		client:      client,
		config:      config,
		indexPrefix: config.IndexPrefix,
		logger:      logger,
		sequence:    make(map[string]int),
	}

	// Initialize indices
	if err := repo.initIndices(context.Background()); err != nil {
		return nil, fmt.Errorf("error initializing indices: %w", err)
	}

	return repo, nil
}

func (r *ElasticsearchRepository) runsIndex() string {
	return r.indexPrefix + "_runs"
}

func (r *ElasticsearchRepository) cribHandsIndex() string {
	return r.indexPrefix + "_crib_hands"
}

const runsMapping = `{
	"mappings": {
		"properties": {
			"run_id": { "type": "keyword" },
			"mode": { "type": "keyword" },
			"iterations": { "type": "integer" },
			"workers": { "type": "integer" },
			"seed": { "type": "long" },
			"histogram": { "type": "object", "enabled": false },
			"started_at": { "type": "date" },
			"completed_at": { "type": "date" },
			"elapsed_ns": { "type": "long" }
		}
	}
}`

const cribHandsMapping = `{
	"mappings": {
		"properties": {
			"run_id": { "type": "keyword" },
			"sequence": { "type": "integer" },
			"full_hand": { "type": "keyword" },
			"kept_hand": { "type": "keyword" },
			"cut": { "type": "keyword" },
			"discarded": { "type": "keyword" },
			"pre_cut_score": { "type": "integer" },
			"score": { "type": "integer" }
		}
	}
}`

// initIndices creates the necessary indices if they don't exist
func (r *ElasticsearchRepository) initIndices(ctx context.Context) error {
	indices := []struct {
		name    string
		mapping string
	}{
		{r.runsIndex(), runsMapping},
		{r.cribHandsIndex(), cribHandsMapping},
	}

	for _, index := range indices {
		res, err := r.client.Indices.Exists([]string{index.name}, r.client.Indices.Exists.WithContext(ctx))
		if err != nil {
			return fmt.Errorf("error checking if index %s exists: %w", index.name, err)
		}
		res.Body.Close()

		if res.StatusCode != http.StatusNotFound {
			continue
		}

		req := esapi.IndicesCreateRequest{
			Index: index.name,
			Body:  bytes.NewReader([]byte(index.mapping)),
		}
		createRes, err := req.Do(ctx, r.client)
		if err != nil {
			return fmt.Errorf("error creating index %s: %w", index.name, err)
		}
		createRes.Body.Close()

		if createRes.IsError() {
			return fmt.Errorf("error creating index %s: %s", index.name, createRes.String())
		}
		r.logger.Info("Created Elasticsearch index %s", index.name)
	}

	return nil
}

// SaveRun stores a run in the base repository and indexes it
func (r *ElasticsearchRepository) SaveRun(ctx context.Context, run *entities.SimulationRun) error {
	// First save to the base repository
	if err := r.baseRepo.SaveRun(ctx, run); err != nil {
		return fmt.Errorf("error saving run to base repository: %w", err)
	}

	// Then index in Elasticsearch
	return r.IndexRun(ctx, run)
}

// IndexRun indexes a run document keyed by the run ID
func (r *ElasticsearchRepository) IndexRun(ctx context.Context, run *entities.SimulationRun) error {
	jsonData, err := json.Marshal(newESRun(run))
	if err != nil {
		return fmt.Errorf("error marshaling run: %w", err)
	}

	res, err := r.client.Index(
		r.runsIndex(),
		bytes.NewReader(jsonData),
		r.client.Index.WithContext(ctx),
		r.client.Index.WithDocumentID(run.ID),
		r.client.Index.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("error indexing run: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing run: %s", res.String())
	}

	return nil
}

// GetRun retrieves a run from the runs index, falling back to the base repository for
// runs saved before indexing was enabled
func (r *ElasticsearchRepository) GetRun(ctx context.Context, id string) (*entities.SimulationRun, error) {
	res, err := r.client.Get(r.runsIndex(), id, r.client.Get.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("error getting run: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return r.baseRepo.GetRun(ctx, id)
	}
	if res.IsError() {
		return nil, fmt.Errorf("error getting run: %s", res.String())
	}

	var doc struct {
		Source ESRun `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("error parsing run: %w", err)
	}

	return doc.Source.toRun(), nil
}

// ListRuns retrieves the most recent runs from the runs index, optionally for one mode
func (r *ElasticsearchRepository) ListRuns(ctx context.Context, mode entities.Mode, limit int) ([]*entities.SimulationRun, error) {
	if limit <= 0 || limit > maxSearchSize {
		limit = maxSearchSize
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{"match_all": map[string]interface{}{}},
		"sort": []interface{}{
			map[string]interface{}{"completed_at": map[string]string{"order": "desc"}},
			map[string]interface{}{"run_id": map[string]string{"order": "asc"}},
		},
	}
	if mode != "" {
		query["query"] = map[string]interface{}{
			"term": map[string]interface{}{"mode": string(mode)},
		}
	}

	body, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("error building runs query: %w", err)
	}

	res, err := r.client.Search(
		r.client.Search.WithContext(ctx),
		r.client.Search.WithIndex(r.runsIndex()),
		r.client.Search.WithBody(bytes.NewReader(body)),
		r.client.Search.WithSize(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("error searching for runs: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("error searching for runs: %s", res.String())
	}

	// Parse the response
	var result struct {
		Hits struct {
			Hits []struct {
				Source ESRun `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("error parsing runs: %w", err)
	}

	runs := make([]*entities.SimulationRun, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		runs = append(runs, hit.Source.toRun())
	}
	return runs, nil
}

// SaveCribHands stores hands in the base repository and bulk indexes them
func (r *ElasticsearchRepository) SaveCribHands(ctx context.Context, runID string, hands []*entities.CribHandRecord) error {
	if err := r.baseRepo.SaveCribHands(ctx, runID, hands); err != nil {
		return fmt.Errorf("error saving crib hands to base repository: %w", err)
	}

	r.mu.Lock()
	start := r.sequence[runID]
	r.sequence[runID] = start + len(hands)
	r.mu.Unlock()

	for offset := 0; offset < len(hands); offset += r.config.BatchSize {
		end := offset + r.config.BatchSize
		if end > len(hands) {
			end = len(hands)
		}
		if err := r.bulkIndexCribHands(ctx, runID, start+offset, hands[offset:end]); err != nil {
			return err
		}
	}
	return nil
}

func (r *ElasticsearchRepository) bulkIndexCribHands(ctx context.Context, runID string, start int, hands []*entities.CribHandRecord) error {
	var buf bytes.Buffer
	for i, h := range hands {
		sequence := start + i
		meta := map[string]interface{}{
			"index": map[string]string{
				"_index": r.cribHandsIndex(),
				"_id":    fmt.Sprintf("%s-%d", runID, sequence),
			},
		}
		if err := json.NewEncoder(&buf).Encode(meta); err != nil {
			return fmt.Errorf("error encoding bulk action: %w", err)
		}
		if err := json.NewEncoder(&buf).Encode(newESCribHand(runID, sequence, h)); err != nil {
			return fmt.Errorf("error encoding crib hand: %w", err)
		}
	}

	res, err := r.client.Bulk(
		bytes.NewReader(buf.Bytes()),
		r.client.Bulk.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("error bulk indexing crib hands: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error bulk indexing crib hands: %s", res.String())
	}

	var result struct {
		Errors bool `json:"errors"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return fmt.Errorf("error parsing bulk response: %w", err)
	}
	if result.Errors {
		return fmt.Errorf("error bulk indexing crib hands for run %s: some documents were rejected", runID)
	}

	r.logger.Debug("Indexed %d crib hands for run %s", len(hands), runID)
	return nil
}

// GetCribHands retrieves hands from the base repository
func (r *ElasticsearchRepository) GetCribHands(ctx context.Context, runID string, limit int) ([]*entities.CribHandRecord, error) {
	return r.baseRepo.GetCribHands(ctx, runID, limit)
}

// SyncRuns indexes the newest limit runs of the base repository, covering runs saved
// while Elasticsearch was unreachable. It returns how many runs were indexed.
func (r *ElasticsearchRepository) SyncRuns(ctx context.Context, limit int) (int, error) {
	runs, err := r.baseRepo.ListRuns(ctx, "", limit)
	if err != nil {
		return 0, fmt.Errorf("error listing base runs: %w", err)
	}

	for i, run := range runs {
		if err := r.IndexRun(ctx, run); err != nil {
			return i, err
		}
	}
	return len(runs), nil
}

// Close closes the base repository
func (r *ElasticsearchRepository) Close() error {
	return r.baseRepo.Close()
}

// GetIndexPrefix returns the index prefix used by the repository
func (r *ElasticsearchRepository) GetIndexPrefix() string {
	return r.indexPrefix
}
