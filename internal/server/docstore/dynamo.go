package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/ndenisov/showcase/internal/common"
)

// keyAttr is the partition key attribute of every document table.
const keyAttr = "id"

// DynamoStore stores each document as one DynamoDB item, keyed by the "id"
// attribute. Scan maps to a full-table scan; consistency is the table's
// default (eventually consistent reads after scans).
type DynamoStore struct {
	client      *dynamodb.Client
	tablePrefix string
}

func NewDynamoStore(client *dynamodb.Client, tablePrefix string) *DynamoStore {
	return &DynamoStore{client: client, tablePrefix: tablePrefix}
}

func (s *DynamoStore) tableName(table string) *string {
	return aws.String(s.tablePrefix + table)
}

func key(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		keyAttr: &types.AttributeValueMemberS{Value: id},
	}
}

func (s *DynamoStore) Get(ctx context.Context, table, id string) ([]byte, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: s.tableName(table),
		Key:       key(id),
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb get: %w", err)
	}
	if out.Item == nil {
		return nil, common.ErrNotFound
	}
	return itemToJSON(out.Item)
}

func (s *DynamoStore) Put(ctx context.Context, table, id string, doc []byte) error {
	item, err := jsonToItem(id, doc)
	if err != nil {
		return err
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: s.tableName(table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("dynamodb put: %w", err)
	}
	return nil
}

func (s *DynamoStore) PutIfAbsent(ctx context.Context, table, id string, doc []byte) error {
	item, err := jsonToItem(id, doc)
	if err != nil {
		return err
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           s.tableName(table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return common.ErrConflict
		}
		return fmt.Errorf("dynamodb conditional put: %w", err)
	}
	return nil
}

func (s *DynamoStore) Delete(ctx context.Context, table, id string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: s.tableName(table),
		Key:       key(id),
	})
	if err != nil {
		return fmt.Errorf("dynamodb delete: %w", err)
	}
	return nil
}

func (s *DynamoStore) Scan(ctx context.Context, table string) ([][]byte, error) {
	var docs [][]byte
	var startKey map[string]types.AttributeValue

	for {
		out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         s.tableName(table),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("dynamodb scan: %w", err)
		}
		for _, item := range out.Items {
			doc, err := itemToJSON(item)
			if err != nil {
				return nil, err
			}
			docs = append(docs, doc)
		}
		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	return docs, nil
}

func (s *DynamoStore) Ping(ctx context.Context) error {
	_, err := s.client.ListTables(ctx, &dynamodb.ListTablesInput{Limit: aws.Int32(1)})
	return err
}

func jsonToItem(id string, doc []byte) (map[string]types.AttributeValue, error) {
	var m map[string]any
	if err := json.Unmarshal(doc, &m); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	m[keyAttr] = id

	item, err := attributevalue.MarshalMap(m)
	if err != nil {
		return nil, fmt.Errorf("marshalling item: %w", err)
	}
	return item, nil
}

func itemToJSON(item map[string]types.AttributeValue) ([]byte, error) {
	var m map[string]any
	if err := attributevalue.UnmarshalMap(item, &m); err != nil {
		return nil, fmt.Errorf("unmarshalling item: %w", err)
	}
	doc, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	return doc, nil
}
