// Package testifystub bridges stubkit surrogates to testify's mock runtime.
//
// Installing the observer mirrors every stub invocation into a
// testify mock.Mock, so testify's assertion helpers (AssertCalled,
// AssertNumberOfCalls, AssertExpectations on recorded calls) work against
// stubs built by pkg/stub. The bridge is installed explicitly at
// construction time; nothing is probed at runtime.
//
//	m := &mock.Mock{}
//	s := stub.For(stub.TypeOf[ItemsService](), stub.WithObserver(testifystub.New(m)))
//
//	s.Get("Find").Call("7")
//	m.AssertCalled(t, "Find", "7")
package testifystub

import (
	"github.com/stretchr/testify/mock"
)

// Observer mirrors stub invocations into a testify mock.Mock.
type Observer struct {
	m *mock.Mock
}

// New returns an observer writing into m.
func New(m *mock.Mock) *Observer {
	return &Observer{m: m}
}

// ObserveCall records the invocation on the underlying mock. Results are
// still computed by the stub itself; the mock only carries the call record
// for testify's assertion helpers.
func (o *Observer) ObserveCall(member string, args []any) {
	o.m.Calls = append(o.m.Calls, mock.Call{
		Parent:    o.m,
		Method:    member,
		Arguments: mock.Arguments(args),
	})
}
