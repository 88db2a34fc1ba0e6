package audit

import (
	"context"
	"encoding/json"

	"b2redis/models"
	"github.com/olivere/elastic/v7"
)

var _ Log = new(ElasticLog)

// ElasticLog indexes audit events in Elasticsearch.
type ElasticLog struct {
	IndexName     string
	ElasticClient *elastic.Client
}

// NewElasticLog creates a log writing to the given index.
func NewElasticLog(indexName string, client *elastic.Client) *ElasticLog {
	return &ElasticLog{IndexName: indexName, ElasticClient: client}
}

func (log *ElasticLog) Record(event models.AuditEvent) error {
	_, err := log.ElasticClient.
		Index().
		Index(log.IndexName).
		Id(event.ID).
		BodyJson(event).
		Do(context.Background())

	return err
}

func (log *ElasticLog) Search(q Query) ([]models.AuditEvent, error) {
	boolQuery := elastic.NewBoolQuery()
	if q.Action != "" {
		boolQuery.Must(elastic.NewTermQuery("action.keyword", q.Action))
	}
	if q.BucketName != "" {
		boolQuery.Must(elastic.NewTermQuery("bucket_name.keyword", q.BucketName))
	}

	timeRangeQuery := elastic.NewRangeQuery("timestamp")

	shouldIncludeTimeRangeQuery := false
	if !q.Since.IsZero() {
		timeRangeQuery = timeRangeQuery.Gte(q.Since)
		shouldIncludeTimeRangeQuery = true
	}
	if !q.Until.IsZero() {
		timeRangeQuery = timeRangeQuery.Lte(q.Until)
		shouldIncludeTimeRangeQuery = true
	}
	if shouldIncludeTimeRangeQuery {
		boolQuery.Must(timeRangeQuery)
	}

	search := log.ElasticClient.Search().
		Index(log.IndexName).
		Pretty(false).
		Size(10000).
		Sort("timestamp", false).
		Query(boolQuery)

	result, err := search.Do(context.Background())
	if err != nil {
		return nil, err
	}

	events := make([]models.AuditEvent, len(result.Hits.Hits))
	for i, hit := range result.Hits.Hits {
		if err := json.Unmarshal(hit.Source, &events[i]); err != nil {
			return nil, models.NewErrMalformedRecord("audit", err.Error())
		}
	}

	return events, nil
}

func (log *ElasticLog) Stats() (map[string]interface{}, error) {
	actionsAggregation := elastic.NewCardinalityAggregation().Field("action.keyword")
	bucketsAggregation := elastic.NewCardinalityAggregation().Field("bucket_name.keyword")

	query := log.ElasticClient.Search().
		Index(log.IndexName).
		Aggregation("number_of_actions", actionsAggregation).
		Aggregation("number_of_buckets", bucketsAggregation).
		Size(0)

	results, err := query.Do(context.Background())
	if err != nil {
		return nil, err
	}

	numberOfActions, _ := results.Aggregations.Cardinality("number_of_actions")
	numberOfBuckets, _ := results.Aggregations.Cardinality("number_of_buckets")

	return map[string]interface{}{
		"number_of_actions": numberOfActions.Value,
		"number_of_buckets": numberOfBuckets.Value,
	}, nil
}
