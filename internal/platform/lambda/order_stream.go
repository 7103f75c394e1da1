package lambda

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bakery-backoffice/internal/application"
	"bakery-backoffice/internal/infrastructure/dynamodb"
	"bakery-backoffice/internal/ports"

	"github.com/aws/aws-lambda-go/events"
	awsv2types "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const eventInsert = "INSERT"

type OrderCreatedHandler interface {
	HandleOrderCreated(ctx context.Context, event application.OrderCreatedEvent) (application.DispatchSummary, error)
}

type StreamHandler func(ctx context.Context, event events.DynamoDBEvent) (events.DynamoDBEventResponse, error)

// NewOrderStreamHandler dispatches every inserted order record on its own.
// Records whose dispatch fails are reported back as batch item failures so
// only they are retried.
func NewOrderStreamHandler(notifier OrderCreatedHandler, logger ports.Logger, timeout time.Duration) StreamHandler {
	return func(ctx context.Context, event events.DynamoDBEvent) (events.DynamoDBEventResponse, error) {
		var resp events.DynamoDBEventResponse
		for _, record := range event.Records {
			var err error
			switch classify(record) {
			case recordOrder:
				err = dispatch(ctx, notifier, timeout, toOrderCreatedEvent(ctx, logger, record))
			case recordMalformed:
				logger.Warn(ctx, "insert record without entity type", "event_id", record.EventID)
				err = dispatch(ctx, notifier, timeout, application.OrderCreatedEvent{EventID: record.EventID})
			default:
				logger.Debug(ctx, "ignoring stream record", "event_id", record.EventID, "event_name", record.EventName)
				continue
			}
			if err != nil {
				logger.Error(ctx, "order notification failed", "event_id", record.EventID, "error", err)
				resp.BatchItemFailures = append(resp.BatchItemFailures, events.DynamoDBBatchItemFailure{
					ItemIdentifier: record.EventID,
				})
			}
		}
		return resp, nil
	}
}

func dispatch(ctx context.Context, notifier OrderCreatedHandler, timeout time.Duration, event application.OrderCreatedEvent) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	_, err := notifier.HandleOrderCreated(ctx, event)
	return err
}

type recordKind int

const (
	recordIgnored recordKind = iota
	recordOrder
	recordMalformed
)

// classify passes on inserted orders and inserts whose image carries no
// usable entity type; the notifier treats the latter as payload-less.
func classify(record events.DynamoDBEventRecord) recordKind {
	if record.EventName != eventInsert {
		return recordIgnored
	}
	entityType, ok := record.Change.NewImage["EntityType"]
	if !ok || entityType.DataType() != events.DataTypeString || entityType.String() == "" {
		return recordMalformed
	}
	if entityType.String() != dynamodb.OrderEntityType {
		return recordIgnored
	}
	return recordOrder
}

// toOrderCreatedEvent leaves Order nil when the image cannot be decoded; the
// notifier skips such events.
func toOrderCreatedEvent(ctx context.Context, logger ports.Logger, record events.DynamoDBEventRecord) application.OrderCreatedEvent {
	out := application.OrderCreatedEvent{EventID: record.EventID}
	item, err := convertImage(record.Change.NewImage)
	if err == nil {
		decoded, decodeErr := dynamodb.DecodeOrder(item)
		if decodeErr == nil {
			out.Order = &decoded
			return out
		}
		err = decodeErr
	}
	logger.Warn(ctx, "undecodable order image", "event_id", record.EventID, "error", err)
	return out
}

func convertImage(image map[string]events.DynamoDBAttributeValue) (map[string]awsv2types.AttributeValue, error) {
	if len(image) == 0 {
		return nil, errors.New("empty image")
	}
	return convertMap(image)
}

func convertMap(image map[string]events.DynamoDBAttributeValue) (map[string]awsv2types.AttributeValue, error) {
	out := make(map[string]awsv2types.AttributeValue, len(image))
	for k, v := range image {
		av, err := convertAttribute(v)
		if err != nil {
			return nil, fmt.Errorf("attribute %s: %w", k, err)
		}
		out[k] = av
	}
	return out, nil
}

func convertAttribute(v events.DynamoDBAttributeValue) (awsv2types.AttributeValue, error) {
	switch v.DataType() {
	case events.DataTypeString:
		return &awsv2types.AttributeValueMemberS{Value: v.String()}, nil
	case events.DataTypeNumber:
		return &awsv2types.AttributeValueMemberN{Value: v.Number()}, nil
	case events.DataTypeBoolean:
		return &awsv2types.AttributeValueMemberBOOL{Value: v.Boolean()}, nil
	case events.DataTypeNull:
		return &awsv2types.AttributeValueMemberNULL{Value: true}, nil
	case events.DataTypeBinary:
		return &awsv2types.AttributeValueMemberB{Value: v.Binary()}, nil
	case events.DataTypeStringSet:
		return &awsv2types.AttributeValueMemberSS{Value: v.StringSet()}, nil
	case events.DataTypeNumberSet:
		return &awsv2types.AttributeValueMemberNS{Value: v.NumberSet()}, nil
	case events.DataTypeBinarySet:
		return &awsv2types.AttributeValueMemberBS{Value: v.BinarySet()}, nil
	case events.DataTypeList:
		items := v.List()
		list := make([]awsv2types.AttributeValue, 0, len(items))
		for _, item := range items {
			av, err := convertAttribute(item)
			if err != nil {
				return nil, err
			}
			list = append(list, av)
		}
		return &awsv2types.AttributeValueMemberL{Value: list}, nil
	case events.DataTypeMap:
		m, err := convertMap(v.Map())
		if err != nil {
			return nil, err
		}
		return &awsv2types.AttributeValueMemberM{Value: m}, nil
	default:
		return nil, fmt.Errorf("unsupported attribute type %v", v.DataType())
	}
}
