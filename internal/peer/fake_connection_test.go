package peer

import (
	"errors"
	"time"

	"github.com/JeremiahR/lightning-mini-peer/internal/lnmsg"
)

// fakeConnection is a hand-fed stand-in for *brontide.Connection: tests
// queue inbound messages and inspect outbound ones without a real socket
// or handshake.
type fakeConnection struct {
	remote [33]byte

	inbox      []lnmsg.Message
	inboxErr   error // returned once inbox is drained, instead of a timeout
	outbox     []lnmsg.Message
	closed     bool
	pendingPing bool
	readyPing  bool
	stale      bool
	sendErr    error
}

var errReadFailed = errors.New("fake: connection reset")

type fakeTimeoutErr struct{}

func (fakeTimeoutErr) Error() string   { return "fake: i/o timeout" }
func (fakeTimeoutErr) Timeout() bool   { return true }
func (fakeTimeoutErr) Temporary() bool { return true }

func (f *fakeConnection) RemoteStaticKey() [33]byte { return f.remote }

func (f *fakeConnection) SetPollDeadline(d time.Duration) error { return nil }

func (f *fakeConnection) ReadNextMessage() (lnmsg.Message, error) {
	if len(f.inbox) == 0 {
		if f.inboxErr != nil {
			return nil, f.inboxErr
		}
		return nil, fakeTimeoutErr{}
	}
	msg := f.inbox[0]
	f.inbox = f.inbox[1:]
	return msg, nil
}

func (f *fakeConnection) Send(msg lnmsg.Message) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.outbox = append(f.outbox, msg)
	return nil
}

func (f *fakeConnection) ReadyForPing() bool { return f.readyPing }

func (f *fakeConnection) SendPing() error {
	f.pendingPing = true
	return f.Send(&lnmsg.Ping{NumPongBytes: 0})
}

func (f *fakeConnection) ClearPendingPing() { f.pendingPing = false }

func (f *fakeConnection) Stale() bool { return f.stale }

func (f *fakeConnection) Close() error {
	f.closed = true
	return nil
}
