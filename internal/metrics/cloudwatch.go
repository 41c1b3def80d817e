package metrics

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/Conceptual-Machines/melodycraft-api/internal/llm"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

const (
	namespace             = "MelodyCraft/API"
	environmentProduction = "production"
	putTimeout            = 5 * time.Second
	serverErrorStatus     = 500
)

// metricPutter is the slice of the CloudWatch API the client uses
type metricPutter interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Client ships metrics to CloudWatch. Each Record call becomes one
// PutMetricData request sent in the background.
type Client struct {
	api         metricPutter
	environment string
}

// NewClient creates a CloudWatch client. Outside production, or when the AWS
// config cannot be loaded, the client is disabled and every call is a no-op.
func NewClient(ctx context.Context, environment string) (*Client, error) {
	if environment != environmentProduction {
		log.Printf("📊 CloudWatch Metrics: DISABLED (environment: %s)", environment)
		return &Client{environment: environment}, nil
	}

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		log.Printf("⚠️  Failed to load AWS config for CloudWatch: %v", err)
		return &Client{environment: environment}, nil
	}

	log.Printf("📊 CloudWatch Metrics: ✅ ENABLED (namespace: %s)", namespace)
	return &Client{api: cloudwatch.NewFromConfig(cfg), environment: environment}, nil
}

// Enabled reports whether metrics are shipped to CloudWatch
func (m *Client) Enabled() bool {
	return m != nil && m.api != nil
}

func (m *Client) RecordAPIRequest(_ context.Context, endpoint string, statusCode int, duration time.Duration) {
	if !m.Enabled() {
		return
	}
	name := "APIRequests"
	if statusCode >= serverErrorStatus {
		name = "APIErrors"
	}
	dims := m.dimensions("Endpoint", endpoint)
	m.send(
		datum(name, 1, types.StandardUnitCount, dims),
		datum("APILatency", float64(duration.Milliseconds()), types.StandardUnitMilliseconds, dims),
	)
}

func (m *Client) RecordHintUsage(_ context.Context, model string, usage llm.Usage, success bool) {
	if !m.Enabled() {
		return
	}
	dims := m.dimensions("Model", model)
	if !success {
		m.send(datum("HintFailures", 1, types.StandardUnitCount, dims))
		return
	}

	data := []types.MetricDatum{
		datum("HintRequests", 1, types.StandardUnitCount, dims),
		datum("HintTokens/Input", float64(usage.InputTokens), types.StandardUnitCount, dims),
		datum("HintTokens/Output", float64(usage.OutputTokens), types.StandardUnitCount, dims),
		datum("HintTokens/Total", float64(usage.TotalTokens), types.StandardUnitCount, dims),
	}
	if usage.ReasoningTokens > 0 {
		data = append(data, datum("HintTokens/Reasoning", float64(usage.ReasoningTokens), types.StandardUnitCount, dims))
	}
	m.send(data...)
}

func (m *Client) RecordGenerationDuration(_ context.Context, duration time.Duration, hintUsed bool) {
	if !m.Enabled() {
		return
	}
	dims := m.dimensions("HintUsed", strconv.FormatBool(hintUsed))
	m.send(datum("GenerationDuration", float64(duration.Milliseconds()), types.StandardUnitMilliseconds, dims))
}

func (m *Client) RecordComposition(_ context.Context, mood string, measures, voices int) {
	if !m.Enabled() {
		return
	}
	dims := m.dimensions("Mood", mood)
	m.send(
		datum("CompositionMeasures", float64(measures), types.StandardUnitCount, dims),
		datum("CompositionVoices", float64(voices), types.StandardUnitCount, dims),
	)
}

// dimensions pairs one event-specific dimension with the environment
func (m *Client) dimensions(name, value string) []types.Dimension {
	return []types.Dimension{
		{Name: aws.String(name), Value: aws.String(value)},
		{Name: aws.String("Environment"), Value: aws.String(m.environment)},
	}
}

func datum(name string, value float64, unit types.StandardUnit, dims []types.Dimension) types.MetricDatum {
	return types.MetricDatum{
		MetricName: aws.String(name),
		Value:      aws.Float64(value),
		Unit:       unit,
		Timestamp:  aws.Time(time.Now()),
		Dimensions: dims,
	}
}

// send puts data off the request path; failures are only logged
func (m *Client) send(data ...types.MetricDatum) {
	go func() {
		if err := m.put(context.Background(), data); err != nil {
			log.Printf("Failed to record %d CloudWatch metric(s): %v", len(data), err)
		}
	}()
}

func (m *Client) put(ctx context.Context, data []types.MetricDatum) error {
	ctx, cancel := context.WithTimeout(ctx, putTimeout)
	defer cancel()

	_, err := m.api.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(namespace),
		MetricData: data,
	})
	return err
}
