package client

import (
	"context"
	"sync"
)

// RequestInterceptor may modify a request before it is dispatched.
// Returning an error aborts the request.
type RequestInterceptor func(ctx context.Context, req *TransportRequest) error

// ResponseInterceptor may modify a successful response.
// Returning an error turns the request into a failure.
type ResponseInterceptor func(ctx context.Context, resp *Response) error

// ErrorInterceptor sees a failed request. A non-nil return replaces the
// error passed on; nil keeps it.
type ErrorInterceptor func(ctx context.Context, err error) error

// RequestInterceptorID identifies a registered request interceptor.
type RequestInterceptorID int

// ResponseInterceptorID identifies a registered response interceptor pair.
type ResponseInterceptorID int

type requestInterceptor struct {
	id RequestInterceptorID
	fn RequestInterceptor
}

type responseInterceptor struct {
	id        ResponseInterceptorID
	onSuccess ResponseInterceptor
	onError   ErrorInterceptor
}

// interceptors keeps both chains in registration order.
type interceptors struct {
	mu       sync.RWMutex
	nextID   int
	request  []requestInterceptor
	response []responseInterceptor
}

func (ic *interceptors) addRequest(fn RequestInterceptor) RequestInterceptorID {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	ic.nextID++
	id := RequestInterceptorID(ic.nextID)
	ic.request = append(ic.request, requestInterceptor{id: id, fn: fn})
	return id
}

func (ic *interceptors) removeRequest(id RequestInterceptorID) bool {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	for i, r := range ic.request {
		if r.id == id {
			ic.request = append(ic.request[:i:i], ic.request[i+1:]...)
			return true
		}
	}
	return false
}

func (ic *interceptors) addResponse(onSuccess ResponseInterceptor, onError ErrorInterceptor) ResponseInterceptorID {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	ic.nextID++
	id := ResponseInterceptorID(ic.nextID)
	ic.response = append(ic.response, responseInterceptor{id: id, onSuccess: onSuccess, onError: onError})
	return id
}

func (ic *interceptors) removeResponse(id ResponseInterceptorID) bool {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	for i, r := range ic.response {
		if r.id == id {
			ic.response = append(ic.response[:i:i], ic.response[i+1:]...)
			return true
		}
	}
	return false
}

func (ic *interceptors) snapshot() ([]requestInterceptor, []responseInterceptor) {
	ic.mu.RLock()
	defer ic.mu.RUnlock()
	return append([]requestInterceptor(nil), ic.request...),
		append([]responseInterceptor(nil), ic.response...)
}
