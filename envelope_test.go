package mediator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
)

type CreateUser struct {
	Name string `json:"name"`
}

func (c *CreateUser) Validate() error {
	if c.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

type UserCreated struct {
	ID string `json:"id"`
}

type EnvelopeSuite struct {
	suite.Suite
	decoder *Decoder
}

func TestEnvelopeSuite(t *testing.T) {
	suite.Run(t, new(EnvelopeSuite))
}

func (s *EnvelopeSuite) SetupTest() {
	s.decoder = NewDecoder(
		Format{
			Name:        "eventbridge",
			Match:       HasPaths("source", "detail-type", "detail"),
			KeyPath:     "detail-type",
			PayloadPath: "detail",
		},
		Format{
			Name:        "simple",
			KeyPath:     "type",
			PayloadPath: "payload",
		},
		Format{
			Name:    "flat",
			Match:   HasPaths("kind"),
			KeyPath: "kind",
		},
	)
	Bind[*CreateUser](s.decoder, "user/create")
	Bind[UserCreated](s.decoder, "user/created")
}

func (s *EnvelopeSuite) TestDecodesEachFormat() {
	tests := map[string]struct {
		raw  string
		want any
	}{
		"eventbridge": {
			raw:  `{"source":"users","detail-type":"user/created","detail":{"id":"u1"}}`,
			want: UserCreated{ID: "u1"},
		},
		"simple": {
			raw:  `{"type":"user/create","payload":{"name":"Ada"}}`,
			want: &CreateUser{Name: "Ada"},
		},
		"flat payload is the whole document": {
			raw:  `{"kind":"user/created","id":"u2"}`,
			want: UserCreated{ID: "u2"},
		},
	}

	for name, tt := range tests {
		s.Run(name, func() {
			got, err := s.decoder.Decode([]byte(tt.raw))
			s.Require().NoError(err)
			s.Assert().Equal(tt.want, got)
		})
	}
}

func (s *EnvelopeSuite) TestRemembersLastMatch() {
	_, err := s.decoder.Decode([]byte(`{"kind":"user/created","id":"u2"}`))
	s.Require().NoError(err)
	s.Assert().Equal(int64(2), s.decoder.lastMatch.Load())

	_, err = s.decoder.Decode([]byte(`{"type":"user/create","payload":{"name":"Ada"}}`))
	s.Require().NoError(err)
	s.Assert().Equal(int64(1), s.decoder.lastMatch.Load())
}

func (s *EnvelopeSuite) TestInvalidJSON() {
	_, err := s.decoder.Decode([]byte(`{"type":`))

	s.Assert().ErrorIs(err, ErrInvalidJSON)
}

func (s *EnvelopeSuite) TestUnknownFormat() {
	_, err := s.decoder.Decode([]byte(`{"records":[]}`))

	s.Assert().ErrorIs(err, ErrUnknownFormat)
}

func (s *EnvelopeSuite) TestUnboundKey() {
	_, err := s.decoder.Decode([]byte(`{"type":"user/delete","payload":{}}`))

	s.Assert().ErrorIs(err, ErrUnboundKey)
	s.Assert().ErrorContains(err, `"user/delete"`)
}

func (s *EnvelopeSuite) TestInvalidPayload() {
	_, err := s.decoder.Decode([]byte(`{"type":"user/create","payload":{"name":42}}`))

	s.Require().ErrorIs(err, ErrInvalidPayload)
	var derr *DecodeError
	s.Require().ErrorAs(err, &derr)
	s.Assert().Equal("simple", derr.Format)
	s.Assert().Equal("user/create", derr.Key)
}

func (s *EnvelopeSuite) TestPayloadValidation() {
	_, err := s.decoder.Decode([]byte(`{"type":"user/create","payload":{}}`))

	s.Assert().ErrorIs(err, ErrInvalidPayload)
	s.Assert().ErrorContains(err, "name is required")
}

func (s *EnvelopeSuite) TestMissingPayload() {
	for _, raw := range []string{
		`{"type":"user/create"}`,
		`{"type":"user/create","payload":null}`,
	} {
		s.Run(raw, func() {
			_, err := s.decoder.Decode([]byte(raw))

			s.Require().ErrorIs(err, ErrInvalidPayload)
			s.Assert().ErrorIs(err, errMissingPayload)
		})
	}
}

func (s *EnvelopeSuite) TestNullPayloadForValueBinding() {
	got, err := s.decoder.Decode([]byte(`{"type":"user/created","payload":null}`))

	s.Require().NoError(err)
	s.Assert().Equal(UserCreated{}, got)
}

func (s *EnvelopeSuite) TestSendEnvelope() {
	c := NewContainer()
	RegisterFunc(c, func(ctx context.Context, cmd *CreateUser) (*UserCreated, error) {
		return &UserCreated{ID: "id-" + cmd.Name}, nil
	})

	resp, err := SendEnvelope(context.Background(), New(c), s.decoder, []byte(`{"type":"user/create","payload":{"name":"Ada"}}`))

	s.Require().NoError(err)
	s.Assert().Equal(&UserCreated{ID: "id-Ada"}, resp)
}

func (s *EnvelopeSuite) TestSendEnvelopeStopsOnDecodeError() {
	c := NewContainer()
	RegisterFunc(c, func(ctx context.Context, cmd *CreateUser) (*UserCreated, error) {
		s.Fail("handler must not run")
		return nil, nil
	})

	_, err := SendEnvelope(context.Background(), New(c), s.decoder, []byte(`{"type":"user/create","payload":{}}`))

	s.Assert().ErrorIs(err, ErrInvalidPayload)
}

func (s *EnvelopeSuite) TestPublishEnvelope() {
	var got []string
	c := NewContainer()
	SubscribeFunc(c, func(ctx context.Context, n UserCreated) error {
		got = append(got, n.ID)
		return nil
	})

	err := PublishEnvelope(context.Background(), New(c), s.decoder,
		[]byte(`{"source":"users","detail-type":"user/created","detail":{"id":"u1"}}`))

	s.Require().NoError(err)
	s.Assert().Equal([]string{"u1"}, got)
}

func (s *EnvelopeSuite) TestWrapRoundTrips() {
	simple := Format{Name: "simple", KeyPath: "type", PayloadPath: "payload"}

	raw, err := simple.Wrap("user/create", &CreateUser{Name: "Ada"})
	s.Require().NoError(err)
	s.Assert().JSONEq(`{"type":"user/create","payload":{"name":"Ada"}}`, string(raw))

	got, err := s.decoder.Decode(raw)
	s.Require().NoError(err)
	s.Assert().Equal(&CreateUser{Name: "Ada"}, got)
}

func (s *EnvelopeSuite) TestWrapFlatFormat() {
	flat := Format{Name: "flat", Match: HasPaths("kind"), KeyPath: "kind"}

	raw, err := flat.Wrap("user/created", UserCreated{ID: "u3"})
	s.Require().NoError(err)
	s.Assert().JSONEq(`{"kind":"user/created","id":"u3"}`, string(raw))
}

func (s *EnvelopeSuite) TestWrapNestedPaths() {
	nested := Format{Name: "nested", KeyPath: "meta.type", PayloadPath: "data.body"}

	raw, err := nested.Wrap("user/created", UserCreated{ID: "u4"})
	s.Require().NoError(err)
	s.Assert().JSONEq(`{"data":{"body":{"id":"u4"}},"meta":{"type":"user/created"}}`, string(raw))
}

func (s *EnvelopeSuite) TestWrapRejectsUnencodablePayload() {
	_, err := Format{Name: "simple", KeyPath: "type", PayloadPath: "payload"}.Wrap("x", make(chan int))

	s.Assert().ErrorContains(err, "encode simple payload")
}
