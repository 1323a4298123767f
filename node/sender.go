// Copyright (C) 2025, MaidSafe.net Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package node

import (
	"context"
	"crypto/rand"
	"fmt"

	"github.com/maidsafe/sn-core/address"
	"github.com/maidsafe/sn-core/errs"
	"github.com/maidsafe/sn-core/replication"
	"github.com/maidsafe/sn-core/transport"
	"github.com/maidsafe/sn-core/wire"
)

// adapterSender implements replication.Sender over the transport
// adapter's request/reply brokering, encoding NodeReplicateOne and
// NodeQuery envelopes and decoding their CmdAck/CmdError/QueryResponse
// replies.
type adapterSender struct {
	transport *transport.Adapter
}

func newMsgID() (wire.MsgID, error) {
	var id wire.MsgID
	if _, err := rand.Read(id[:]); err != nil {
		return id, fmt.Errorf("node: generate message id: %w", err)
	}
	return id, nil
}

func (s *adapterSender) ReplicateOne(ctx context.Context, target address.Name, chunk replication.Chunk) error {
	msgID, err := newMsgID()
	if err != nil {
		return err
	}

	payload, err := wire.Codec.Marshal(wire.CurrentVersion, wire.NodeReplicateOne{Name: chunk.Name, Data: chunk.Data})
	if err != nil {
		return fmt.Errorf("node: marshal replicate request: %w", err)
	}

	reply, err := s.transport.SendAndAwait(ctx, target, &wire.Envelope{
		MsgID:       msgID,
		Destination: wire.Destination{Kind: wire.DestNode, Name: target},
		Kind:        wire.PayloadNodeReplicateOne,
		Payload:     payload,
	})
	if err != nil {
		return err
	}

	switch reply.Kind {
	case wire.PayloadCmdAck:
		return nil
	case wire.PayloadCmdError:
		var cmdErr wire.CmdError
		if _, err := wire.Codec.Unmarshal(reply.Payload, &cmdErr); err != nil {
			return fmt.Errorf("node: unmarshal replicate error: %w", err)
		}
		kind, ok := errs.ParseKind(cmdErr.Kind)
		if !ok {
			kind = errs.KindInvalidMessage
		}
		return errs.New(kind, cmdErr.Reason)
	default:
		return fmt.Errorf("node: unexpected reply kind %d to replicate request", reply.Kind)
	}
}

func (s *adapterSender) Query(ctx context.Context, target address.Name, name address.Name) (replication.Response, error) {
	msgID, err := newMsgID()
	if err != nil {
		return replication.Response{}, err
	}

	payload, err := wire.Codec.Marshal(wire.CurrentVersion, wire.NodeQuery{Name: name})
	if err != nil {
		return replication.Response{}, fmt.Errorf("node: marshal query request: %w", err)
	}

	reply, err := s.transport.SendAndAwait(ctx, target, &wire.Envelope{
		MsgID:       msgID,
		Destination: wire.Destination{Kind: wire.DestNode, Name: target},
		Kind:        wire.PayloadNodeQuery,
		Payload:     payload,
	})
	if err != nil {
		return replication.Response{}, err
	}

	if reply.Kind != wire.PayloadQueryResponse {
		return replication.Response{}, fmt.Errorf("node: unexpected reply kind %d to query request", reply.Kind)
	}
	var resp wire.QueryResponse
	if _, err := wire.Codec.Unmarshal(reply.Payload, &resp); err != nil {
		return replication.Response{}, fmt.Errorf("node: unmarshal query response: %w", err)
	}
	return replication.Response{Found: resp.Found, Data: resp.Data}, nil
}
