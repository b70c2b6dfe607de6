// Package stub generates test doubles for a type's callable surface.
//
// A Surrogate replaces every method of a type with an independent Func: a
// callable that records its invocations and can be configured with a fixed
// return, an immediately-settled Promise (resolved or rejected), or a custom
// implementation.
//
// # Usage
//
// Stub an interface and configure one member:
//
//	s := stub.For(stub.TypeOf[ItemsService]())
//	s.Get("Find").Resolve(map[string]any{"id": "1"})
//
//	out := s.Get("Find").Call("1")
//	item, err := out.(*stub.Promise).Await()
//
// Partial stubbing skips discovery and takes the member names as given:
//
//	s := stub.ForNames([]string{"Find", "Create"})
//
// Override produces a binding for the test harness, layering hand-written
// substitutes over the generated stubs:
//
//	b := stub.Override(stub.TypeOf[ItemsService](), map[string]any{
//	    "Find": myFakeFind,
//	})
//	h := harness.New(harness.WithBinding(b))
//
// Surrogates are cheap; build a fresh one per test case. Sharing one across
// concurrently running test cases interleaves invocation logs.
package stub
