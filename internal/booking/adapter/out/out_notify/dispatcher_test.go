package out_notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ganesh-basavoju/mechpro-backend/internal/booking/application/ports/out"
	"github.com/ganesh-basavoju/mechpro-backend/internal/booking/domain"
	"github.com/ganesh-basavoju/mechpro-backend/internal/model"
	"github.com/ganesh-basavoju/mechpro-backend/internal/shared/logger"
)

type recordedEmit struct {
	class   model.ActorClass
	actorID string
	kind    string
	payload any
}

type fakeLive struct {
	emits      []recordedEmit
	broadcasts []recordedEmit
}

func (f *fakeLive) EmitToActor(class model.ActorClass, actorID, kind string, payload any) {
	f.emits = append(f.emits, recordedEmit{class: class, actorID: actorID, kind: kind, payload: payload})
}

func (f *fakeLive) BroadcastToClass(class model.ActorClass, kind string, payload any) {
	f.broadcasts = append(f.broadcasts, recordedEmit{class: class, kind: kind, payload: payload})
}

type recordedPush struct {
	token string
	msg   out.PushMessage
}

type fakePush struct {
	sent []recordedPush
	err  error
}

func (f *fakePush) Send(_ context.Context, token string, msg out.PushMessage, _ model.ActorClass, _ string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, recordedPush{token: token, msg: msg})
	return nil
}

type staticTokens struct {
	tokens map[string]string
	err    error
}

func (s *staticTokens) FCMToken(_ context.Context, _ model.ActorClass, actorID string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.tokens[actorID], nil
}

func sampleNotification() domain.Notification {
	return domain.Notification{
		Kind:      model.KindBookingUpdate,
		BookingID: "b-1",
		Title:     "Booking Status Updated",
		Message:   "Your booking status has been updated to confirmed",
		Payload:   map[string]any{"status": domain.StatusConfirmed},
	}
}

func TestDispatchFiresBothChannels(t *testing.T) {
	live := &fakeLive{}
	push := &fakePush{}
	d := NewDispatcher(live, push, &staticTokens{tokens: map[string]string{"u-1": "tok-1"}}, logger.NewTestLogger())

	n := sampleNotification()
	d.Dispatch(context.Background(), domain.Target{Class: model.ClassUser, ID: "u-1"}, n)

	require.Len(t, live.emits, 1)
	assert.Equal(t, model.ClassUser, live.emits[0].class)
	assert.Equal(t, "u-1", live.emits[0].actorID)
	assert.Equal(t, model.KindBookingUpdate, live.emits[0].kind)

	require.Len(t, push.sent, 1)
	assert.Equal(t, "tok-1", push.sent[0].token)

	// both channels carry identical content
	assert.Equal(t, n, live.emits[0].payload)
	assert.Equal(t, n.Title, push.sent[0].msg.Title)
	assert.Equal(t, n.Message, push.sent[0].msg.Body)
	assert.Equal(t, n.Kind, push.sent[0].msg.Kind)
	assert.Equal(t, n.BookingID, push.sent[0].msg.BookingID)
}

func TestDispatchWithoutTokenSkipsPush(t *testing.T) {
	live := &fakeLive{}
	push := &fakePush{}
	d := NewDispatcher(live, push, &staticTokens{tokens: map[string]string{}}, logger.NewTestLogger())

	d.Dispatch(context.Background(), domain.Target{Class: model.ClassUser, ID: "u-1"}, sampleNotification())

	assert.Len(t, live.emits, 1)
	assert.Empty(t, push.sent)
}

func TestDispatchTokenLookupFailureSkipsPush(t *testing.T) {
	live := &fakeLive{}
	push := &fakePush{}
	d := NewDispatcher(live, push, &staticTokens{err: errors.New("db down")}, logger.NewTestLogger())

	d.Dispatch(context.Background(), domain.Target{Class: model.ClassUser, ID: "u-1"}, sampleNotification())

	assert.Len(t, live.emits, 1)
	assert.Empty(t, push.sent)
}

func TestDispatchSwallowsPushFailure(t *testing.T) {
	live := &fakeLive{}
	push := &fakePush{err: errors.New("fcm unavailable")}
	d := NewDispatcher(live, push, &staticTokens{tokens: map[string]string{"u-1": "tok-1"}}, logger.NewTestLogger())

	d.Dispatch(context.Background(), domain.Target{Class: model.ClassUser, ID: "u-1"}, sampleNotification())

	assert.Len(t, live.emits, 1)
}

func TestBroadcastGoesLiveOnly(t *testing.T) {
	live := &fakeLive{}
	push := &fakePush{}
	d := NewDispatcher(live, push, &staticTokens{tokens: map[string]string{"a-1": "tok"}}, logger.NewTestLogger())

	d.Broadcast(context.Background(), model.ClassAdmin, sampleNotification())

	require.Len(t, live.broadcasts, 1)
	assert.Equal(t, model.ClassAdmin, live.broadcasts[0].class)
	assert.Empty(t, push.sent)
}
