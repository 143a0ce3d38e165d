package alerthub_test

import (
	"sync/atomic"

	"brgyalert/backend/internal/models"
)

type MockClient struct {
	id     string
	Recv   chan models.AlertEvent
	closed atomic.Int32
}

func newMockClient(id string, buffer int) *MockClient {
	return &MockClient{id: id, Recv: make(chan models.AlertEvent, buffer)}
}

func (c *MockClient) GetID() string                            { return c.id }
func (c *MockClient) GetSendChannel() chan<- models.AlertEvent { return c.Recv }
func (c *MockClient) Run()                                     {}
func (c *MockClient) Close()                                   { c.closed.Add(1) }
func (c *MockClient) Closed() int                              { return int(c.closed.Load()) }
