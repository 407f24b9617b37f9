package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dudedrops/dudes-api/internal/apperr"
	"github.com/dudedrops/dudes-api/internal/auth"
	"github.com/dudedrops/dudes-api/internal/constants"
	"github.com/dudedrops/dudes-api/internal/logger"
	"github.com/dudedrops/dudes-api/internal/mocks"
	"github.com/dudedrops/dudes-api/internal/services"
	sol "github.com/dudedrops/dudes-api/internal/solana"
	"github.com/dudedrops/dudes-api/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	logger.InitLogger("test")
}

const (
	testToken  = "token-1"
	testWallet = "FPAzYdh8rdSRSXYQBneqwniqWGn3out5eQg2n1qyotxd"
)

var testCaller = services.Caller{UID: "user-1", Wallet: sol.MustPublicKey(testWallet)}

func newTestRouter(t *testing.T, ops DropOperations) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := store.NewMemoryStore()
	require.NoError(t, s.Put(context.Background(), constants.CollectionWalletSessions, testToken, map[string]interface{}{
		"uid":       "user-1",
		"wallet":    testWallet,
		"expiresAt": time.Now().Add(time.Hour),
	}))

	h := NewDropHandler(ops)
	router := gin.New()
	api := router.Group("/api/v1", auth.EnsureWalletSession(auth.NewSessionResolver(s)))
	api.POST("/boxes/open", h.OpenBox)
	api.POST("/boxes/mint", h.MintBoxes)
	api.POST("/deliveries", h.PrepareDelivery)
	api.POST("/claims/prepare", h.PrepareClaim)
	api.POST("/claims/finalize", h.FinalizeClaim)
	// Mounted without the session middleware.
	router.POST("/unguarded/boxes/open", h.OpenBox)
	return router
}

func doJSON(router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+testToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apperr.Body {
	t.Helper()
	var resp apperr.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

func TestDropHandler_OpenBox(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		setupMocks     func(ops *mocks.MockDropOperations)
		expectedStatus int
		expectedKind   apperr.Kind
	}{
		{
			name: "returns the prepared transaction",
			body: OpenBoxRequest{BoxAssetID: " box-1 "},
			setupMocks: func(ops *mocks.MockDropOperations) {
				ops.EXPECT().OpenBox(gomock.Any(), testCaller, services.OpenBoxRequest{BoxAssetID: "box-1"}).
					Return(&services.OpenBoxResult{Transaction: "dHg=", DudeIDs: []int{1, 2, 3}}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "malformed body",
			body:           `{"boxAssetId": 12`,
			setupMocks:     func(ops *mocks.MockDropOperations) {},
			expectedStatus: http.StatusBadRequest,
			expectedKind:   apperr.KindInvalidArgument,
		},
		{
			name: "ownership failure",
			body: OpenBoxRequest{BoxAssetID: "box-1"},
			setupMocks: func(ops *mocks.MockDropOperations) {
				ops.EXPECT().OpenBox(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, apperr.New(apperr.KindFailedPrecondition, "asset box-1 is not owned by this wallet").WithDetail("assetId", "box-1"))
			},
			expectedStatus: http.StatusPreconditionFailed,
			expectedKind:   apperr.KindFailedPrecondition,
		},
		{
			name: "pool exhausted",
			body: OpenBoxRequest{BoxAssetID: "box-1"},
			setupMocks: func(ops *mocks.MockDropOperations) {
				ops.EXPECT().OpenBox(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, apperr.New(apperr.KindResourceExhausted, "dude pool exhausted"))
			},
			expectedStatus: http.StatusTooManyRequests,
			expectedKind:   apperr.KindResourceExhausted,
		},
		{
			name: "unclassified failure hides its cause",
			body: OpenBoxRequest{BoxAssetID: "box-1"},
			setupMocks: func(ops *mocks.MockDropOperations) {
				ops.EXPECT().OpenBox(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, errors.New("dial tcp 10.0.0.7:5432: connection refused"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedKind:   apperr.KindUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ops := mocks.NewMockDropOperationsForTest(t)
			tt.setupMocks(ops)
			router := newTestRouter(t, ops)

			w := doJSON(router, "/api/v1/boxes/open", tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				var result services.OpenBoxResult
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
				assert.Equal(t, "dHg=", result.Transaction)
				assert.Equal(t, []int{1, 2, 3}, result.DudeIDs)
				return
			}
			body := decodeError(t, w)
			assert.Equal(t, tt.expectedKind, body.Kind)
			if tt.expectedKind == apperr.KindUnknown {
				assert.Equal(t, "internal error", body.Message)
			}
		})
	}
}

func TestDropHandler_RequiresSession(t *testing.T) {
	ops := mocks.NewMockDropOperationsForTest(t)
	router := newTestRouter(t, ops)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/boxes/open", bytes.NewBufferString(`{"boxAssetId":"x"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(router, "/unguarded/boxes/open", OpenBoxRequest{BoxAssetID: "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDropHandler_PrepareDelivery(t *testing.T) {
	t.Run("returns fee and delivery id", func(t *testing.T) {
		ops := mocks.NewMockDropOperationsForTest(t)
		ops.EXPECT().PrepareDelivery(gomock.Any(), testCaller, services.DeliveryRequest{AddressID: "home", ItemIDs: []string{"a", "b"}}).
			Return(&services.DeliveryResult{Transaction: "dHg=", FeeLamports: 7_000_000, DeliveryID: 42}, nil)
		router := newTestRouter(t, ops)

		w := doJSON(router, "/api/v1/deliveries", DeliveryRequest{AddressID: "home", ItemIDs: []string{" a", "b "}})
		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, float64(7_000_000), body["feeLamports"])
		assert.Equal(t, float64(42), body["deliveryId"])
	})

	t.Run("oversize reports max items", func(t *testing.T) {
		ops := mocks.NewMockDropOperationsForTest(t)
		ops.EXPECT().PrepareDelivery(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, apperr.New(apperr.KindFailedPrecondition, "too many items for one transaction").WithDetail("maxItems", 9))
		router := newTestRouter(t, ops)

		w := doJSON(router, "/api/v1/deliveries", DeliveryRequest{AddressID: "home", ItemIDs: []string{"a"}})
		assert.Equal(t, http.StatusPreconditionFailed, w.Code)
		body := decodeError(t, w)
		assert.Equal(t, float64(9), body.Details["maxItems"])
	})
}

func TestDropHandler_Claims(t *testing.T) {
	t.Run("prepare returns the attempt", func(t *testing.T) {
		expiresAt := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
		ops := mocks.NewMockDropOperationsForTest(t)
		ops.EXPECT().PrepareClaim(gomock.Any(), testCaller, services.ClaimRequest{Code: "abc"}).
			Return(&services.ClaimResult{
				Transaction:   "dHg=",
				DudeIDs:       []int{4, 5, 6},
				AttemptID:     "attempt-1",
				ExpiresAt:     expiresAt,
				CertificateID: "cert-1",
			}, nil)
		router := newTestRouter(t, ops)

		w := doJSON(router, "/api/v1/claims/prepare", ClaimRequest{Code: "abc"})
		require.Equal(t, http.StatusOK, w.Code)
		var result services.ClaimResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.Equal(t, "attempt-1", result.AttemptID)
		assert.True(t, expiresAt.Equal(result.ExpiresAt))
		assert.Equal(t, "cert-1", result.CertificateID)
	})

	t.Run("finalize acknowledges", func(t *testing.T) {
		ops := mocks.NewMockDropOperationsForTest(t)
		ops.EXPECT().FinalizeClaim(gomock.Any(), testCaller, services.FinalizeClaimRequest{Code: "abc", Signature: "sig"}).Return(nil)
		router := newTestRouter(t, ops)

		w := doJSON(router, "/api/v1/claims/finalize", FinalizeClaimRequest{Code: "abc", Signature: "sig"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"ok":true}`, w.Body.String())
	})

	t.Run("finalize rejection", func(t *testing.T) {
		ops := mocks.NewMockDropOperationsForTest(t)
		ops.EXPECT().FinalizeClaim(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(apperr.New(apperr.KindFailedPrecondition, "transaction failed on chain"))
		router := newTestRouter(t, ops)

		w := doJSON(router, "/api/v1/claims/finalize", FinalizeClaimRequest{Code: "abc", Signature: "sig"})
		assert.Equal(t, http.StatusPreconditionFailed, w.Code)
		assert.Equal(t, "transaction failed on chain", decodeError(t, w).Message)
	})
}

func TestDropHandler_MintBoxes(t *testing.T) {
	ops := mocks.NewMockDropOperationsForTest(t)
	ops.EXPECT().PrepareMintBoxes(gomock.Any(), testCaller, services.MintBoxesRequest{Quantity: 2}).
		Return(&services.MintBoxesResult{Transaction: "dHg=", PriceLamports: 200_000_000}, nil)
	router := newTestRouter(t, ops)

	w := doJSON(router, "/api/v1/boxes/mint", MintBoxesRequest{Quantity: 2})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"transaction":"dHg=","priceLamports":200000000}`, w.Body.String())
}

func TestDropHandler_RejectsIncompleteBodies(t *testing.T) {
	tests := []struct {
		name string
		path string
		body string
	}{
		{"open without box id", "/api/v1/boxes/open", `{}`},
		{"mint with zero quantity", "/api/v1/boxes/mint", `{"quantity":0}`},
		{"mint with negative quantity", "/api/v1/boxes/mint", `{"quantity":-3}`},
		{"delivery without address", "/api/v1/deliveries", `{"itemIds":["a"]}`},
		{"delivery without items", "/api/v1/deliveries", `{"addressId":"home","itemIds":[]}`},
		{"delivery with blank item", "/api/v1/deliveries", `{"addressId":"home","itemIds":["a",""]}`},
		{"claim without code", "/api/v1/claims/prepare", `{"code":""}`},
		{"finalize without signature", "/api/v1/claims/finalize", `{"code":"abc"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// No expectations: the service must not be reached.
			router := newTestRouter(t, mocks.NewMockDropOperationsForTest(t))

			w := doJSON(router, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, apperr.KindInvalidArgument, decodeError(t, w).Kind)
		})
	}
}
