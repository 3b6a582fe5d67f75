package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-signup-api/internal/domain"
)

// VerificationRepo manages issued email verification codes.
// PK: user_id, SK: verification_id (ULID). Multiple outstanding records per
// user may coexist; queries run descending on the sort key so "most recently
// issued" is always the first item. Records are never deleted on use or
// expiry; only the sign-up rollback cascade removes them.
type VerificationRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewVerificationRepo(client *dynamodb.Client, tableName string) *VerificationRepo {
	return &VerificationRepo{client: client, tableName: tableName}
}

func (r *VerificationRepo) Put(ctx context.Context, v *domain.EmailVerification) error {
	item, err := attributevalue.MarshalMap(v)
	if err != nil {
		return fmt.Errorf("marshal verification: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// FindByCode returns the most recently issued unused record for the user
// whose code matches. Expiry is not checked here; callers decide validity
// via EmailVerification.IsValid.
func (r *VerificationRepo) FindByCode(ctx context.Context, userID, code string) (*domain.EmailVerification, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("user_id = :uid"),
		FilterExpression:       aws.String("code = :c AND used = :f"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
			":c":   &types.AttributeValueMemberS{Value: code},
			":f":   &types.AttributeValueMemberBOOL{Value: false},
		},
		ScanIndexForward: aws.Bool(false),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("verification not found: %w", domain.ErrNotFound)
	}
	var v domain.EmailVerification
	if err := attributevalue.UnmarshalMap(out.Items[0], &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Latest returns the most recently issued record for the user regardless of
// state. Used for the resend cooldown.
func (r *VerificationRepo) Latest(ctx context.Context, userID string) (*domain.EmailVerification, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("verification not found: %w", domain.ErrNotFound)
	}
	var v domain.EmailVerification
	if err := attributevalue.UnmarshalMap(out.Items[0], &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// MarkUsed sets the used flag with a conditional update (used must still be
// false). Under concurrent submission of the same code at most one caller
// succeeds; the loser gets ErrInvalidOrExpiredCode.
func (r *VerificationRepo) MarkUsed(ctx context.Context, userID, verificationID string) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 compositeKey("user_id", userID, "verification_id", verificationID),
		UpdateExpression:    aws.String("SET #u = :t"),
		ConditionExpression: aws.String("#u = :f"),
		ExpressionAttributeNames: map[string]string{
			"#u": fieldUsed,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":t": &types.AttributeValueMemberBOOL{Value: true},
			":f": &types.AttributeValueMemberBOOL{Value: false},
		},
	})
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return fmt.Errorf("code already used: %w", domain.ErrInvalidOrExpiredCode)
	}
	return err
}

// DeleteAllForUser removes every record for the user. Only the sign-up
// rollback calls this, mirroring the cascade delete of the account.
func (r *VerificationRepo) DeleteAllForUser(ctx context.Context, userID string) error {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
		},
		ProjectionExpression: aws.String("user_id, verification_id"),
	})
	if err != nil {
		return err
	}
	var firstErr error
	for _, item := range out.Items {
		vid, ok := item["verification_id"].(*types.AttributeValueMemberS)
		if !ok {
			continue
		}
		_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(r.tableName),
			Key:       compositeKey("user_id", userID, "verification_id", vid.Value),
		})
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
