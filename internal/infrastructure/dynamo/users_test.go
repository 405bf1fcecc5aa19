package dynamo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-auth-nosql/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUsersAPI struct{ mock.Mock }

func (m *mockUsersAPI) GetItem(ctx context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dynamodb.GetItemOutput)
	return out, args.Error(1)
}

func (m *mockUsersAPI) Query(ctx context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dynamodb.QueryOutput)
	return out, args.Error(1)
}

func (m *mockUsersAPI) UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dynamodb.UpdateItemOutput)
	return out, args.Error(1)
}

func (m *mockUsersAPI) TransactWriteItems(ctx context.Context, in *dynamodb.TransactWriteItemsInput, _ ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dynamodb.TransactWriteItemsOutput)
	return out, args.Error(1)
}

const testTable = "users"

func testUser() *domain.User {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	return &domain.User{UserID: "u1", Name: "Ana", Email: "ana@x.com", PasswordHash: "h", CreatedAt: now, UpdatedAt: now}
}

func keyValue(t *testing.T, key map[string]types.AttributeValue) string {
	t.Helper()
	s, ok := key[attrUserID].(*types.AttributeValueMemberS)
	require.True(t, ok, "key has no string user_id")
	return s.Value
}

// --- Create ---

func TestCreate_WritesUserAndEmailGuardTogether(t *testing.T) {
	api := &mockUsersAPI{}
	var got *dynamodb.TransactWriteItemsInput
	api.On("TransactWriteItems", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(1).(*dynamodb.TransactWriteItemsInput) }).
		Return(&dynamodb.TransactWriteItemsOutput{}, nil)

	require.NoError(t, NewUserRepo(api, testTable).Create(context.Background(), testUser()))

	require.NotNil(t, got)
	require.Len(t, got.TransactItems, 2)
	userPut, guardPut := got.TransactItems[0].Put, got.TransactItems[1].Put
	require.NotNil(t, userPut)
	require.NotNil(t, guardPut)

	assert.Equal(t, "u1", keyValue(t, userPut.Item))
	assert.Equal(t, "email#ana@x.com", keyValue(t, guardPut.Item))
	assert.NotContains(t, guardPut.Item, domain.FieldEmail, "guard must stay out of the email index")
	for _, p := range []*types.Put{userPut, guardPut} {
		assert.Equal(t, testTable, aws.ToString(p.TableName))
		assert.Equal(t, "attribute_not_exists(user_id)", aws.ToString(p.ConditionExpression))
	}
}

func TestCreate_TakenEmailIsConflict(t *testing.T) {
	api := &mockUsersAPI{}
	api.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, &types.TransactionCanceledException{
		Message: aws.String("Transaction cancelled"),
		CancellationReasons: []types.CancellationReason{
			{Code: aws.String("None")},
			{Code: aws.String("ConditionalCheckFailed")},
		},
	})

	err := NewUserRepo(api, testTable).Create(context.Background(), testUser())
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCreate_OtherCancellationIsNotConflict(t *testing.T) {
	api := &mockUsersAPI{}
	api.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, &types.TransactionCanceledException{
		CancellationReasons: []types.CancellationReason{
			{Code: aws.String("ThrottlingError")},
			{Code: aws.String("None")},
		},
	})

	err := NewUserRepo(api, testTable).Create(context.Background(), testUser())
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrConflict)
}

// --- Get / GetByEmail ---

func TestGet_ConsistentReadAndNotFound(t *testing.T) {
	api := &mockUsersAPI{}
	api.On("GetItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.GetItemInput) bool {
		return aws.ToBool(in.ConsistentRead) && keyValue(t, in.Key) == "missing"
	})).Return(&dynamodb.GetItemOutput{}, nil)

	_, err := NewUserRepo(api, testTable).Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	api.AssertExpectations(t)
}

func TestGetByEmail_RereadsItemFromTable(t *testing.T) {
	fresh := testUser()
	item, err := attributevalue.MarshalMap(fresh)
	require.NoError(t, err)

	api := &mockUsersAPI{}
	api.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
		return aws.ToString(in.IndexName) == emailIndex
	})).Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{
		{attrUserID: &types.AttributeValueMemberS{Value: "u1"}},
	}}, nil)
	api.On("GetItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.GetItemInput) bool {
		return aws.ToBool(in.ConsistentRead) && keyValue(t, in.Key) == "u1"
	})).Return(&dynamodb.GetItemOutput{Item: item}, nil)

	u, err := NewUserRepo(api, testTable).GetByEmail(context.Background(), "ana@x.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.UserID)
	assert.Equal(t, "ana@x.com", u.Email)
	api.AssertExpectations(t)
}

func TestGetByEmail_NoMatch(t *testing.T) {
	api := &mockUsersAPI{}
	api.On("Query", mock.Anything, mock.Anything).Return(&dynamodb.QueryOutput{}, nil)

	_, err := NewUserRepo(api, testTable).GetByEmail(context.Background(), "ghost@x.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	api.AssertNotCalled(t, "GetItem", mock.Anything, mock.Anything)
}

// --- Update ---

func TestUpdate_MissingUserIsNotFound(t *testing.T) {
	api := &mockUsersAPI{}
	api.On("UpdateItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.UpdateItemInput) bool {
		return aws.ToString(in.ConditionExpression) == "attribute_exists(user_id)"
	})).Return(nil, &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")})

	err := NewUserRepo(api, testTable).Update(context.Background(), "missing", map[string]interface{}{domain.FieldVerifyOTP: "123456"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate_StampsUpdatedAt(t *testing.T) {
	api := &mockUsersAPI{}
	var got *dynamodb.UpdateItemInput
	api.On("UpdateItem", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(1).(*dynamodb.UpdateItemInput) }).
		Return(&dynamodb.UpdateItemOutput{}, nil)

	updates := map[string]interface{}{domain.FieldIsAccountVerified: true}
	require.NoError(t, NewUserRepo(api, testTable).Update(context.Background(), "u1", updates))

	require.NotNil(t, got)
	assert.Equal(t, "u1", keyValue(t, got.Key))
	names := make([]string, 0, len(got.ExpressionAttributeNames))
	for _, n := range got.ExpressionAttributeNames {
		names = append(names, n)
	}
	assert.ElementsMatch(t, []string{domain.FieldIsAccountVerified, domain.FieldUpdatedAt}, names)
	assert.Len(t, updates, 1, "caller's map must not be modified")
}

func TestUpdate_PassesThroughOtherErrors(t *testing.T) {
	api := &mockUsersAPI{}
	boom := errors.New("throttled")
	api.On("UpdateItem", mock.Anything, mock.Anything).Return(nil, boom)

	err := NewUserRepo(api, testTable).Update(context.Background(), "u1", map[string]interface{}{domain.FieldName: "x"})
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}
