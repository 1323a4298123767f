// Copyright (C) 2025, MaidSafe.net Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package transport

import (
	"context"
	"reflect"

	"go.uber.org/mock/gomock"

	"github.com/maidsafe/sn-core/address"
)

// MockDialer is a gomock-style fake for Dialer, hand-written against
// gomock's Controller/Call API rather than mockgen output, since Dialer
// has exactly one method.
type MockDialer struct {
	ctrl     *gomock.Controller
	recorder *MockDialerMockRecorder
}

type MockDialerMockRecorder struct {
	mock *MockDialer
}

func NewMockDialer(ctrl *gomock.Controller) *MockDialer {
	m := &MockDialer{ctrl: ctrl}
	m.recorder = &MockDialerMockRecorder{mock: m}
	return m
}

func (m *MockDialer) EXPECT() *MockDialerMockRecorder {
	return m.recorder
}

func (m *MockDialer) Dial(ctx context.Context, peer address.Name) (Conn, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Dial", ctx, peer)
	conn, _ := ret[0].(Conn)
	err, _ := ret[1].(error)
	return conn, err
}

func (mr *MockDialerMockRecorder) Dial(ctx, peer interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Dial", reflect.TypeOf((*MockDialer)(nil).Dial), ctx, peer)
}
