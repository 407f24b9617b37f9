package mocks

import (
	"testing"

	"go.uber.org/mock/gomock"
)

// NewMockDropOperationsForTest creates a new mock DropOperations for testing
func NewMockDropOperationsForTest(t *testing.T) *MockDropOperations {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return NewMockDropOperations(ctrl)
}

// DropServiceMocks groups the collaborators of a DropService under one controller.
type DropServiceMocks struct {
	Verifier  *MockConfigVerifier
	Assets    *MockAssetRequirer
	Owned     *MockOwnerAssetLister
	Allocator *MockItemAllocator
	Builder   *MockTransactionBuilder
	Claims    *MockClaimLocker
}

// NewDropServiceMocksForTest creates every DropService collaborator mock for testing
func NewDropServiceMocksForTest(t *testing.T) *DropServiceMocks {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return &DropServiceMocks{
		Verifier:  NewMockConfigVerifier(ctrl),
		Assets:    NewMockAssetRequirer(ctrl),
		Owned:     NewMockOwnerAssetLister(ctrl),
		Allocator: NewMockItemAllocator(ctrl),
		Builder:   NewMockTransactionBuilder(ctrl),
		Claims:    NewMockClaimLocker(ctrl),
	}
}
