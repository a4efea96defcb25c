package realtime

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/fanlink/fanlink/internal/model"
	"github.com/fanlink/fanlink/internal/testutil"
)

type ClientSuite struct {
	suite.Suite
	client *Client
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}

func (s *ClientSuite) SetupTest() {
	user := &model.User{ID: "user-1", Name: "Alice", Role: model.RoleFan}
	s.client = newClient(user, nil, testutil.NopLogger())
}

func (s *ClientSuite) TestSendQueuesMarshalledEvent() {
	err := s.client.Send(model.NewChatErrorEvent("oops"))
	s.Require().NoError(err)

	data := <-s.client.send
	s.JSONEq(`{"event":"chatError","data":"oops"}`, string(data))
}

func (s *ClientSuite) TestSendFailsFastWhenBufferFull() {
	for i := 0; i < sendBufferSize; i++ {
		s.Require().NoError(s.client.enqueue([]byte("x")))
	}

	err := s.client.enqueue([]byte("one too many"))
	s.ErrorIs(err, ErrSendBufferFull)
}

func (s *ClientSuite) TestSendAfterClose() {
	s.client.close()

	err := s.client.Send(model.NewChatErrorEvent("too late"))
	s.ErrorIs(err, ErrConnClosed)
}

func (s *ClientSuite) TestCloseIsIdempotent() {
	s.client.close()
	s.NotPanics(func() { s.client.close() })
}
