package hotrecharge_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/hotrecharge/hotrecharge-go/pkg/hotrecharge"
	"github.com/hotrecharge/hotrecharge-go/pkg/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const baseURL = "https://ssl.hot.co.zw/api/v1/"

func newTestClient(t *testing.T, opts hotrecharge.Options) (*hotrecharge.Client, *mocks.HTTPClient) {
	t.Helper()

	auth, err := hotrecharge.NewAuthConfig("agent@example.com", "secret", "initial-ref")
	require.NoError(t, err)

	mockClient := &mocks.HTTPClient{}
	return hotrecharge.NewClient(auth, mockClient, opts), mockClient
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func decodedBody(t *testing.T, body interface{}) map[string]any {
	t.Helper()

	buf, ok := body.(*bytes.Buffer)
	require.True(t, ok)

	var payload map[string]any
	require.NoError(t, json.NewDecoder(bytes.NewReader(buf.Bytes())).Decode(&payload))
	return payload
}

// sentReferences pulls the x-agent-reference values out of the recorded mock
// calls, in order.
func sentReferences(t *testing.T, mockClient *mocks.HTTPClient) []string {
	t.Helper()

	var refs []string
	for _, call := range mockClient.Calls {
		headers, ok := call.Arguments.Get(2).(map[string]string)
		require.True(t, ok)
		refs = append(refs, headers[hotrecharge.HeaderAgentReference])
	}
	return refs
}

func TestClient_WalletBalance(t *testing.T) {
	t.Run("successful balance query", func(t *testing.T) {
		client, mockClient := newTestClient(t, hotrecharge.DefaultOptions())

		body := `{"ReplyCode":2,"WalletBalance":120.5,"AgentReference":"abc123"}`
		mockClient.On("Get", context.Background(), baseURL+"agents/wallet-balance",
			mock.AnythingOfType("map[string]string")).Return(jsonResponse(200, body), nil)

		res, err := client.WalletBalance(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 120.5, res.WalletBalance)
		assert.Equal(t, "abc123", res.AgentReference)
		assert.Equal(t, 2, res.ReplyCode)

		raw, ok := res.Raw.Field("WalletBalance")
		assert.True(t, ok)
		assert.Equal(t, 120.5, raw)
		mockClient.AssertExpectations(t)
	})

	t.Run("authorization failure without reply code", func(t *testing.T) {
		client, mockClient := newTestClient(t, hotrecharge.DefaultOptions())

		mockClient.On("Get", context.Background(), baseURL+"agents/wallet-balance",
			mock.AnythingOfType("map[string]string")).
			Return(jsonResponse(401, `{"Message":"access denied"}`), nil)

		_, err := client.WalletBalance(context.Background())

		assert.ErrorIs(t, err, hotrecharge.ErrAuthorization)

		var apiErr *hotrecharge.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "access denied", apiErr.Message)
		mockClient.AssertExpectations(t)
	})

	t.Run("duplicate reference via status 429", func(t *testing.T) {
		client, mockClient := newTestClient(t, hotrecharge.DefaultOptions())

		mockClient.On("Get", context.Background(), baseURL+"agents/wallet-balance",
			mock.AnythingOfType("map[string]string")).
			Return(jsonResponse(429, `{"Message":"reference reused"}`), nil)

		_, err := client.WalletBalance(context.Background())

		assert.ErrorIs(t, err, hotrecharge.ErrDuplicateReference)
		mockClient.AssertExpectations(t)
	})

	t.Run("network error surfaces unclassified", func(t *testing.T) {
		client, mockClient := newTestClient(t, hotrecharge.DefaultOptions())

		mockClient.On("Get", context.Background(), baseURL+"agents/wallet-balance",
			mock.AnythingOfType("map[string]string")).
			Return((*http.Response)(nil), context.DeadlineExceeded)

		_, err := client.WalletBalance(context.Background())

		assert.ErrorIs(t, err, context.DeadlineExceeded)
		mockClient.AssertExpectations(t)
	})
}

func TestClient_AgentReferenceHeaders(t *testing.T) {
	t.Run("auto mode refreshes reference per call", func(t *testing.T) {
		client, mockClient := newTestClient(t, hotrecharge.DefaultOptions())

		body := `{"ReplyCode":2,"WalletBalance":1}`
		mockClient.On("Get", context.Background(), baseURL+"agents/wallet-balance",
			mock.AnythingOfType("map[string]string")).
			Return(jsonResponse(200, body), nil).Once()
		mockClient.On("Get", context.Background(), baseURL+"agents/wallet-balance",
			mock.AnythingOfType("map[string]string")).
			Return(jsonResponse(200, body), nil).Once()

		_, err := client.WalletBalance(context.Background())
		require.NoError(t, err)
		_, err = client.WalletBalance(context.Background())
		require.NoError(t, err)

		seen := sentReferences(t, mockClient)
		require.Len(t, seen, 2)
		assert.NotEqual(t, seen[0], seen[1], "auto mode must generate a fresh reference per call")
		assert.NotEmpty(t, seen[0])
		mockClient.AssertExpectations(t)
	})

	t.Run("manual mode keeps reference until updated", func(t *testing.T) {
		opts := hotrecharge.DefaultOptions()
		opts.UseRandomRef = false
		client, mockClient := newTestClient(t, opts)

		body := `{"ReplyCode":2,"WalletBalance":1}`
		for i := 0; i < 3; i++ {
			mockClient.On("Get", context.Background(), baseURL+"agents/wallet-balance",
				mock.AnythingOfType("map[string]string")).
				Return(jsonResponse(200, body), nil).Once()
		}

		_, err := client.WalletBalance(context.Background())
		require.NoError(t, err)
		_, err = client.WalletBalance(context.Background())
		require.NoError(t, err)

		require.NoError(t, client.UpdateReference("next-ref"))

		_, err = client.WalletBalance(context.Background())
		require.NoError(t, err)

		seen := sentReferences(t, mockClient)
		require.Len(t, seen, 3)
		assert.Equal(t, "initial-ref", seen[0])
		assert.Equal(t, "initial-ref", seen[1])
		assert.Equal(t, "next-ref", seen[2])
		mockClient.AssertExpectations(t)
	})

	t.Run("auth headers are always present", func(t *testing.T) {
		client, mockClient := newTestClient(t, hotrecharge.DefaultOptions())

		matchAuth := mock.MatchedBy(func(headers map[string]string) bool {
			return headers[hotrecharge.HeaderAccessCode] == "agent@example.com" &&
				headers[hotrecharge.HeaderAccessPassword] == "secret" &&
				headers["content-type"] == "application/json" &&
				headers["cache-control"] == "no-cache"
		})

		mockClient.On("Get", context.Background(), baseURL+"agents/wallet-balance", matchAuth).
			Return(jsonResponse(200, `{"ReplyCode":2}`), nil)

		_, err := client.WalletBalance(context.Background())

		require.NoError(t, err)
		mockClient.AssertExpectations(t)
	})

	t.Run("update reference revalidates length", func(t *testing.T) {
		client, _ := newTestClient(t, hotrecharge.DefaultOptions())

		err := client.UpdateReference(strings.Repeat("r", 51))

		assert.ErrorIs(t, err, hotrecharge.ErrReferenceExceedLimit)
	})
}

func TestClient_RechargePinless(t *testing.T) {
	request := hotrecharge.PinlessRechargeRequest{Amount: 10, TargetMobile: "0752782828"}

	t.Run("invalid contact reply", func(t *testing.T) {
		client, mockClient := newTestClient(t, hotrecharge.DefaultOptions())

		mockClient.On("Post", context.Background(), baseURL+"agents/recharge-pinless",
			mock.Anything, mock.AnythingOfType("map[string]string")).
			Return(jsonResponse(200, `{"ReplyCode":217,"ReplyMsg":"invalid contact"}`), nil)

		_, err := client.RechargePinless(context.Background(), request)

		assert.ErrorIs(t, err, hotrecharge.ErrInvalidContact)

		var apiErr *hotrecharge.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "invalid contact", apiErr.Message)
		mockClient.AssertExpectations(t)
	})

	t.Run("successful recharge", func(t *testing.T) {
		client, mockClient := newTestClient(t, hotrecharge.DefaultOptions())

		matchPayload := mock.MatchedBy(func(body interface{}) bool {
			payload := decodedBody(t, body)
			return payload["Amount"] == float64(10) && payload["TargetMobile"] == "0752782828"
		})

		body := `{"ReplyCode":2,"Amount":10,"RechargeID":5501,"WalletBalance":90.5}`
		mockClient.On("Post", context.Background(), baseURL+"agents/recharge-pinless",
			matchPayload, mock.AnythingOfType("map[string]string")).
			Return(jsonResponse(200, body), nil)

		res, err := client.RechargePinless(context.Background(), request)

		require.NoError(t, err)
		assert.Equal(t, int64(5501), res.RechargeID)
		assert.Equal(t, 90.5, res.WalletBalance)
		mockClient.AssertExpectations(t)
	})

	t.Run("rejects malformed target number before any exchange", func(t *testing.T) {
		client, mockClient := newTestClient(t, hotrecharge.DefaultOptions())

		bad := hotrecharge.PinlessRechargeRequest{Amount: 10, TargetMobile: "0612345678"}
		_, err := client.RechargePinless(context.Background(), bad)

		assert.ErrorIs(t, err, hotrecharge.ErrInvalidFormat)
		mockClient.AssertNotCalled(t, "Post", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects oversized customer sms", func(t *testing.T) {
		client, mockClient := newTestClient(t, hotrecharge.DefaultOptions())

		long := hotrecharge.PinlessRechargeRequest{
			Amount:       10,
			TargetMobile: "0778060126",
			CustomerSMS:  strings.Repeat("m", hotrecharge.MaxCustomerSMSLength+1),
		}
		_, err := client.RechargePinless(context.Background(), long)

		assert.ErrorIs(t, err, hotrecharge.ErrInvalidFormat)
		mockClient.AssertNotCalled(t, "Post", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("validation knobs can be disabled", func(t *testing.T) {
		opts := hotrecharge.DefaultOptions()
		opts.ValidateTargetNumber = false
		opts.EnforceMessageLimit = false
		client, mockClient := newTestClient(t, opts)

		mockClient.On("Post", context.Background(), baseURL+"agents/recharge-pinless",
			mock.Anything, mock.AnythingOfType("map[string]string")).
			Return(jsonResponse(200, `{"ReplyCode":2}`), nil)

		loose := hotrecharge.PinlessRechargeRequest{
			Amount:       10,
			TargetMobile: "0612345678",
			CustomerSMS:  strings.Repeat("m", hotrecharge.MaxCustomerSMSLength+1),
		}
		_, err := client.RechargePinless(context.Background(), loose)

		require.NoError(t, err)
		mockClient.AssertExpectations(t)
	})
}

func TestClient_RechargeData(t *testing.T) {
	t.Run("payload carries only the supplied fields", func(t *testing.T) {
		client, mockClient := newTestClient(t, hotrecharge.DefaultOptions())

		matchPayload := mock.MatchedBy(func(body interface{}) bool {
			payload := decodedBody(t, body)
			_, hasAmount := payload["Amount"]
			_, hasSMS := payload["CustomerSMS"]
			return len(payload) == 2 &&
				payload["ProductCode"] == "SMSD5" &&
				payload["TargetMobile"] == "0778060126" &&
				!hasAmount && !hasSMS
		})

		mockClient.On("Post", context.Background(), baseURL+"agents/recharge-data",
			matchPayload, mock.AnythingOfType("map[string]string")).
			Return(jsonResponse(200, `{"ReplyCode":2,"Data":"5MB"}`), nil)

		request := hotrecharge.DataBundleRechargeRequest{ProductCode: "SMSD5", TargetMobile: "0778060126"}
		res, err := client.RechargeData(context.Background(), request)

		require.NoError(t, err)
		assert.Equal(t, "5MB", res.Data)
		mockClient.AssertExpectations(t)
	})

	t.Run("insufficient balance reply", func(t *testing.T) {
		client, mockClient := newTestClient(t, hotrecharge.DefaultOptions())

		mockClient.On("Post", context.Background(), baseURL+"agents/recharge-data",
			mock.Anything, mock.AnythingOfType("map[string]string")).
			Return(jsonResponse(200, `{"ReplyCode":208,"ReplyMsg":"wallet empty"}`), nil)

		request := hotrecharge.DataBundleRechargeRequest{ProductCode: "DWB15", TargetMobile: "0778060126"}
		_, err := client.RechargeData(context.Background(), request)

		assert.ErrorIs(t, err, hotrecharge.ErrInsufficientBalance)
		assert.ErrorIs(t, err, hotrecharge.ErrAPI, "generic catch must also fire")
		mockClient.AssertExpectations(t)
	})

	t.Run("missing product code", func(t *testing.T) {
		client, mockClient := newTestClient(t, hotrecharge.DefaultOptions())

		request := hotrecharge.DataBundleRechargeRequest{TargetMobile: "0778060126"}
		_, err := client.RechargeData(context.Background(), request)

		assert.ErrorIs(t, err, hotrecharge.ErrInvalidFormat)
		mockClient.AssertNotCalled(t, "Post", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestClient_RechargeEVD(t *testing.T) {
	t.Run("stringifies payload fields and defaults quantity", func(t *testing.T) {
		client, mockClient := newTestClient(t, hotrecharge.DefaultOptions())

		matchPayload := mock.MatchedBy(func(body interface{}) bool {
			payload := decodedBody(t, body)
			return payload["BrandID"] == "24" &&
				payload["Denomination"] == "0.5" &&
				payload["Quantity"] == "1" &&
				payload["TargetNumber"] == "0778060126"
		})

		body := `{"ReplyCode":2,"Pins":["0812273518776434,008101288101|17,.50,3/27/2021"]}`
		mockClient.On("Post", context.Background(), baseURL+"agents/recharge-evd",
			matchPayload, mock.AnythingOfType("map[string]string")).
			Return(jsonResponse(200, body), nil)

		request := hotrecharge.EVDRechargeRequest{BrandID: "24", PinValue: 0.5, TargetNumber: "0778060126"}
		res, err := client.RechargeEVD(context.Background(), request)

		require.NoError(t, err)
		require.Len(t, res.Pins, 1)
		mockClient.AssertExpectations(t)
	})

	t.Run("out of stock reply", func(t *testing.T) {
		client, mockClient := newTestClient(t, hotrecharge.DefaultOptions())

		mockClient.On("Post", context.Background(), baseURL+"agents/recharge-evd",
			mock.Anything, mock.AnythingOfType("map[string]string")).
			Return(jsonResponse(200, `{"ReplyCode":209,"ReplyMsg":"no stock"}`), nil)

		request := hotrecharge.EVDRechargeRequest{BrandID: "24", PinValue: 1, TargetNumber: "0778060126", Quantity: 2}
		_, err := client.RechargeEVD(context.Background(), request)

		assert.ErrorIs(t, err, hotrecharge.ErrOutOfPinStock)
		mockClient.AssertExpectations(t)
	})
}

func TestClient_Queries(t *testing.T) {
	t.Run("end user balance escapes number into url", func(t *testing.T) {
		client, mockClient := newTestClient(t, hotrecharge.DefaultOptions())

		expected := baseURL + "agents/enduser-balance?targetmobile=0778060126"
		mockClient.On("Get", context.Background(), expected,
			mock.AnythingOfType("map[string]string")).
			Return(jsonResponse(200, `{"ReplyCode":2,"InitialBalance":3.5}`), nil)

		res, err := client.EndUserBalance(context.Background(), "0778060126")

		require.NoError(t, err)
		assert.Equal(t, 3.5, res.InitialBalance)
		mockClient.AssertExpectations(t)
	})

	t.Run("transaction query by agent reference", func(t *testing.T) {
		client, mockClient := newTestClient(t, hotrecharge.DefaultOptions())

		expected := baseURL + "agents/query-transaction?agentReference=ref-881"
		body := `{"ReplyCode":2,"OriginalAgentReference":"ref-881"}`
		mockClient.On("Get", context.Background(), expected,
			mock.AnythingOfType("map[string]string")).Return(jsonResponse(200, body), nil)

		res, err := client.QueryTransaction(context.Background(), "ref-881")

		require.NoError(t, err)
		assert.Equal(t, "ref-881", res.OriginalAgentReference)
		mockClient.AssertExpectations(t)
	})

	t.Run("transaction not found", func(t *testing.T) {
		client, mockClient := newTestClient(t, hotrecharge.DefaultOptions())

		mockClient.On("Get", context.Background(), mock.AnythingOfType("string"),
			mock.AnythingOfType("map[string]string")).
			Return(jsonResponse(200, `{"ReplyCode":800,"ReplyMsg":"not found"}`), nil)

		_, err := client.QueryTransaction(context.Background(), "gone-ref")

		assert.ErrorIs(t, err, hotrecharge.ErrTransactionNotFound)
		mockClient.AssertExpectations(t)
	})

	t.Run("data bundle catalog", func(t *testing.T) {
		client, mockClient := newTestClient(t, hotrecharge.DefaultOptions())

		body := `{"ReplyCode":2,"Bundles":[{"ProductCode":"DWB15","Network":"Econet","Amount":0.5}]}`
		mockClient.On("Get", context.Background(), baseURL+"agents/get-data-bundles",
			mock.AnythingOfType("map[string]string")).Return(jsonResponse(200, body), nil)

		res, err := client.GetDataBundles(context.Background())

		require.NoError(t, err)
		require.Len(t, res.Bundles, 1)
		assert.Equal(t, "DWB15", res.Bundles[0].ProductCode)
		mockClient.AssertExpectations(t)
	})

	t.Run("evd stock", func(t *testing.T) {
		client, mockClient := newTestClient(t, hotrecharge.DefaultOptions())

		body := `{"ReplyCode":2,"InStock":[{"BrandId":24,"BrandName":"NetOne","PinValue":0.5,"Stock":120}]}`
		mockClient.On("Get", context.Background(), baseURL+"agents/query-evd",
			mock.AnythingOfType("map[string]string")).Return(jsonResponse(200, body), nil)

		res, err := client.QueryEVDStock(context.Background())

		require.NoError(t, err)
		require.Len(t, res.InStock, 1)
		assert.Equal(t, int64(120), res.InStock[0].Stock)
		mockClient.AssertExpectations(t)
	})
}

func TestClient_Zesa(t *testing.T) {
	t.Run("recharge returns tokens", func(t *testing.T) {
		client, mockClient := newTestClient(t, hotrecharge.DefaultOptions())

		matchPayload := mock.MatchedBy(func(body interface{}) bool {
			payload := decodedBody(t, body)
			return payload["Amount"] == float64(50) &&
				payload["MeterNumber"] == "01234567891" &&
				payload["TargetNumber"] == "0778060126"
		})

		body := `{"ReplyCode":2,"Meter":"01234567891","Tokens":[{"Token":"1862-1624-6345-1501","Units":"30.2"}],"RechargeID":7001}`
		mockClient.On("Post", context.Background(), baseURL+"agents/recharge-zesa",
			matchPayload, mock.AnythingOfType("map[string]string")).
			Return(jsonResponse(200, body), nil)

		request := hotrecharge.ZesaRechargeRequest{Amount: 50, MeterNumber: "01234567891", NotifyContact: "0778060126"}
		res, err := client.RechargeZesa(context.Background(), request)

		require.NoError(t, err)
		require.Len(t, res.Tokens, 1)
		assert.Equal(t, "1862-1624-6345-1501", res.Tokens[0].Token)
		assert.Equal(t, int64(7001), res.RechargeID)
		mockClient.AssertExpectations(t)
	})

	t.Run("pending verification reply", func(t *testing.T) {
		client, mockClient := newTestClient(t, hotrecharge.DefaultOptions())

		mockClient.On("Post", context.Background(), baseURL+"agents/recharge-zesa",
			mock.Anything, mock.AnythingOfType("map[string]string")).
			Return(jsonResponse(200, `{"ReplyCode":4,"ReplyMsg":"pending verification","RechargeID":7002}`), nil)

		request := hotrecharge.ZesaRechargeRequest{Amount: 50, MeterNumber: "01234567891", NotifyContact: "0778060126"}
		_, err := client.RechargeZesa(context.Background(), request)

		assert.ErrorIs(t, err, hotrecharge.ErrPendingZesaTransaction)

		var apiErr *hotrecharge.APIError
		require.ErrorAs(t, err, &apiErr)
		id, ok := apiErr.Reply.Field("RechargeID")
		assert.True(t, ok)
		assert.Equal(t, float64(7002), id)
		mockClient.AssertExpectations(t)
	})

	t.Run("customer lookup", func(t *testing.T) {
		client, mockClient := newTestClient(t, hotrecharge.DefaultOptions())

		matchPayload := mock.MatchedBy(func(body interface{}) bool {
			payload := decodedBody(t, body)
			return len(payload) == 1 && payload["MeterNumber"] == "01234567891"
		})

		body := `{"ReplyCode":2,"CustomerInfo":{"CustomerName":"T Moyo","MeterNumber":"01234567891"}}`
		mockClient.On("Post", context.Background(), baseURL+"agents/check-customer-zesa",
			matchPayload, mock.AnythingOfType("map[string]string")).
			Return(jsonResponse(200, body), nil)

		res, err := client.CheckZesaCustomer(context.Background(), "01234567891")

		require.NoError(t, err)
		assert.Equal(t, "T Moyo", res.CustomerInfo.CustomerName)
		mockClient.AssertExpectations(t)
	})

	t.Run("zesa wallet balance", func(t *testing.T) {
		client, mockClient := newTestClient(t, hotrecharge.DefaultOptions())

		mockClient.On("Get", context.Background(), baseURL+"agents/wallet-balance-zesa",
			mock.AnythingOfType("map[string]string")).
			Return(jsonResponse(200, `{"ReplyCode":2,"WalletBalance":300}`), nil)

		res, err := client.ZesaWalletBalance(context.Background())

		require.NoError(t, err)
		assert.Equal(t, float64(300), res.WalletBalance)
		mockClient.AssertExpectations(t)
	})

	t.Run("transaction query posts recharge id", func(t *testing.T) {
		client, mockClient := newTestClient(t, hotrecharge.DefaultOptions())

		matchPayload := mock.MatchedBy(func(body interface{}) bool {
			payload := decodedBody(t, body)
			return len(payload) == 1 && payload["RechargeId"] == "7001"
		})

		body := `{"ReplyCode":2,"RechargeID":7001,"Tokens":[{"Token":"1862-1624-6345-1501"}]}`
		mockClient.On("Post", context.Background(), baseURL+"agents/query-zesa-transaction",
			matchPayload, mock.AnythingOfType("map[string]string")).
			Return(jsonResponse(200, body), nil)

		res, err := client.QueryZesaTransaction(context.Background(), "7001")

		require.NoError(t, err)
		require.Len(t, res.Tokens, 1)
		mockClient.AssertExpectations(t)
	})
}
