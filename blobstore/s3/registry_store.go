package s3

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/buildsim/idfkit/blobstore"
)

// LatestPointer is the reserved document name that RegistryStore commits
// through DynamoDB instead of the underlying store.
const LatestPointer = "LATEST"

// DDBClient is the interface for DynamoDB operations.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// ErrConcurrentModification is returned when a concurrent write is detected.
var ErrConcurrentModification = errors.New("concurrent modification detected")

// RegistryStore implements blobstore.Store backed by object storage with
// DynamoDB for atomic latest-snapshot commits. This enables safe concurrent
// publishers.
//
// DynamoDB is used as a commit log for the LATEST pointer, providing the
// compare-and-swap semantics that S3 lacks. Snapshot documents themselves go
// to the underlying store; only the pointer is versioned.
//
// Table schema:
//   - Partition key: model_uri (string) - the storage prefix/path
//   - Sort key: version (number) - monotonically increasing version
//
// Create table with:
//
//	aws dynamodb create-table \
//	  --table-name idfkit-snapshots \
//	  --attribute-definitions AttributeName=model_uri,AttributeType=S AttributeName=version,AttributeType=N \
//	  --key-schema AttributeName=model_uri,KeyType=HASH AttributeName=version,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
type RegistryStore struct {
	docs      blobstore.Store
	ddbClient DDBClient
	tableName string
	modelURI  string // storage location used as partition key
}

// NewRegistryStore creates a registry store over docs.
// The modelURI should be "s3://bucket/prefix" format used as partition key.
func NewRegistryStore(docs blobstore.Store, ddbClient DDBClient, tableName, modelURI string) *RegistryStore {
	return &RegistryStore{
		docs:      docs,
		ddbClient: ddbClient,
		tableName: tableName,
		modelURI:  modelURI,
	}
}

// Fetch reads a document. For LatestPointer, the snapshot name of the most
// recent committed version is returned from DynamoDB.
func (s *RegistryStore) Fetch(ctx context.Context, name string) ([]byte, error) {
	if name == LatestPointer {
		version, snapshotName, err := s.getLatestVersion(ctx)
		if err != nil {
			return nil, err
		}
		if version == 0 {
			return nil, blobstore.ErrNotFound
		}
		return []byte(snapshotName), nil
	}
	return s.docs.Fetch(ctx, name)
}

// Put writes a document. For LatestPointer, uses DynamoDB conditional write.
func (s *RegistryStore) Put(ctx context.Context, name string, data []byte) error {
	if name == LatestPointer {
		return s.commitVersion(ctx, string(data))
	}
	return s.docs.Put(ctx, name, data)
}

// Delete deletes a document.
func (s *RegistryStore) Delete(ctx context.Context, name string) error {
	return s.docs.Delete(ctx, name)
}

// List lists documents with prefix.
func (s *RegistryStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.docs.List(ctx, prefix)
}

// getLatestVersion queries DynamoDB for the latest committed version.
func (s *RegistryStore) getLatestVersion(ctx context.Context) (uint64, string, error) {
	resp, err := s.ddbClient.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		KeyConditionExpression: aws.String("model_uri = :uri"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uri": &types.AttributeValueMemberS{Value: s.modelURI},
		},
		ScanIndexForward: aws.Bool(false), // Descending order
		Limit:            aws.Int32(1),
	})
	if err != nil {
		return 0, "", fmt.Errorf("failed to query DynamoDB: %w", err)
	}

	if len(resp.Items) == 0 {
		return 0, "", nil
	}

	item := resp.Items[0]
	versionAttr, ok := item["version"].(*types.AttributeValueMemberN)
	if !ok {
		return 0, "", errors.New("invalid version attribute in DynamoDB")
	}
	nameAttr, ok := item["snapshot_name"].(*types.AttributeValueMemberS)
	if !ok {
		return 0, "", errors.New("invalid snapshot_name attribute in DynamoDB")
	}

	var version uint64
	if _, err := fmt.Sscanf(versionAttr.Value, "%d", &version); err != nil {
		return 0, "", fmt.Errorf("failed to parse version: %w", err)
	}

	return version, nameAttr.Value, nil
}

// commitVersion atomically commits a new snapshot pointer using DynamoDB
// conditional write.
func (s *RegistryStore) commitVersion(ctx context.Context, snapshotName string) error {
	currentVersion, _, err := s.getLatestVersion(ctx)
	if err != nil {
		return err
	}

	newVersion := currentVersion + 1

	// Conditional put: only succeed if this version doesn't exist yet
	_, err = s.ddbClient.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item: map[string]types.AttributeValue{
			"model_uri":     &types.AttributeValueMemberS{Value: s.modelURI},
			"version":       &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", newVersion)},
			"snapshot_name": &types.AttributeValueMemberS{Value: snapshotName},
		},
		ConditionExpression: aws.String("attribute_not_exists(version)"),
	})

	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return ErrConcurrentModification
		}
		return fmt.Errorf("failed to commit version to DynamoDB: %w", err)
	}

	return nil
}
