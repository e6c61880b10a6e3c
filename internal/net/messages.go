// Package net is the TCP wire transport (spec 6): a fixed-width binary
// protocol carrying NewOrder/CancelOrder/LogBook requests and
// ExecutionReport/ErrorReport responses, adapted from the teacher's own
// internal/net to the order book's domain. Every order field here is
// fixed width, so unlike the teacher's variable-length username there is
// no trailing string to length-prefix.
package net

import (
	"encoding/binary"
	"errors"
	"fmt"

	"lob/internal/types"
)

var (
	ErrInvalidMessageType = errors.New("invalid message type")
	ErrMessageTooShort    = errors.New("message too short")
)

type MessageType uint16

const (
	Heartbeat MessageType = iota
	NewOrder
	CancelOrder
	LogBook
)

type ReportMessageType uint8

const (
	ExecutionReport ReportMessageType = iota
	ErrorReport
)

// Message format constants. Every field is fixed width, so each
// message's total length is known from its type alone.
const (
	BaseMessageHeaderLen = 2 // message type, uint16

	// OrderID(4) + BookID(4) + Price(4) + Quantity(4) + IsBid(1) +
	// Nonce(8) + Expiry(8) + HasExpiry(1) + Trader(20) + Signature(65)
	NewOrderMessageLen = 4 + 4 + 4 + 4 + 1 + 8 + 8 + 1 + 20 + 65

	// OrderID(4) + BookID(4) + Quantity(4)
	CancelOrderMessageLen = 4 + 4 + 4

	// BookID(4)
	LogBookMessageLen = 4
)

type Message interface {
	GetType() MessageType
}

type BaseMessage struct {
	TypeOf MessageType
}

func (m BaseMessage) GetType() MessageType { return m.TypeOf }

// NewOrderMessage is a single limit order submission.
type NewOrderMessage struct {
	BaseMessage
	OrderID   types.OrderId
	BookID    types.BookId
	Price     uint32
	Quantity  uint32
	IsBid     bool
	Nonce     uint64
	Expiry    uint64
	HasExpiry bool
	Trader    [20]byte
	Signature [65]byte
}

// CancelOrderMessage requests that qty units of an order be cancelled.
type CancelOrderMessage struct {
	BaseMessage
	OrderID  types.OrderId
	BookID   types.BookId
	Quantity uint32
}

// LogBookMessage requests a diagnostic snapshot of a book.
type LogBookMessage struct {
	BaseMessage
	BookID types.BookId
}

func parseMessage(msg []byte) (Message, error) {
	if len(msg) < BaseMessageHeaderLen {
		return nil, ErrMessageTooShort
	}
	typeOf := MessageType(binary.BigEndian.Uint16(msg[0:2]))
	body := msg[2:]
	switch typeOf {
	case NewOrder:
		return parseNewOrder(body)
	case CancelOrder:
		return parseCancelOrder(body)
	case LogBook:
		return parseLogBook(body)
	default:
		return nil, ErrInvalidMessageType
	}
}

func parseNewOrder(msg []byte) (NewOrderMessage, error) {
	if len(msg) < NewOrderMessageLen {
		return NewOrderMessage{}, ErrMessageTooShort
	}
	m := NewOrderMessage{BaseMessage: BaseMessage{TypeOf: NewOrder}}
	m.OrderID = types.OrderId(binary.BigEndian.Uint32(msg[0:4]))
	m.BookID = types.BookId(binary.BigEndian.Uint32(msg[4:8]))
	m.Price = binary.BigEndian.Uint32(msg[8:12])
	m.Quantity = binary.BigEndian.Uint32(msg[12:16])
	m.IsBid = msg[16] != 0
	m.Nonce = binary.BigEndian.Uint64(msg[17:25])
	m.Expiry = binary.BigEndian.Uint64(msg[25:33])
	m.HasExpiry = msg[33] != 0
	copy(m.Trader[:], msg[34:54])
	copy(m.Signature[:], msg[54:119])
	return m, nil
}

func parseCancelOrder(msg []byte) (CancelOrderMessage, error) {
	if len(msg) < CancelOrderMessageLen {
		return CancelOrderMessage{}, ErrMessageTooShort
	}
	m := CancelOrderMessage{BaseMessage: BaseMessage{TypeOf: CancelOrder}}
	m.OrderID = types.OrderId(binary.BigEndian.Uint32(msg[0:4]))
	m.BookID = types.BookId(binary.BigEndian.Uint32(msg[4:8]))
	m.Quantity = binary.BigEndian.Uint32(msg[8:12])
	return m, nil
}

func parseLogBook(msg []byte) (LogBookMessage, error) {
	if len(msg) < LogBookMessageLen {
		return LogBookMessage{}, ErrMessageTooShort
	}
	m := LogBookMessage{BaseMessage: BaseMessage{TypeOf: LogBook}}
	m.BookID = types.BookId(binary.BigEndian.Uint32(msg[0:4]))
	return m, nil
}

// Report is a response sent back to a single client: either a fill
// against a named counterparty, or an error string.
type Report struct {
	MessageType  ReportMessageType
	OrderID      types.OrderId
	BookID       types.BookId
	ExecQty      uint32
	ExecPrice    uint32
	MakerIsBuyer bool
	Counterparty [20]byte
	Err          string
}

const reportFixedLen = 1 + 4 + 4 + 4 + 4 + 1 + 20 + 4

// Serialize converts the report to its wire form.
func (r *Report) Serialize() []byte {
	buf := make([]byte, reportFixedLen+len(r.Err))
	buf[0] = byte(r.MessageType)
	binary.BigEndian.PutUint32(buf[1:5], uint32(r.OrderID))
	binary.BigEndian.PutUint32(buf[5:9], uint32(r.BookID))
	binary.BigEndian.PutUint32(buf[9:13], r.ExecQty)
	binary.BigEndian.PutUint32(buf[13:17], r.ExecPrice)
	if r.MakerIsBuyer {
		buf[17] = 1
	}
	copy(buf[18:38], r.Counterparty[:])
	binary.BigEndian.PutUint32(buf[38:42], uint32(len(r.Err)))
	copy(buf[42:], r.Err)
	return buf
}

func errorReport(orderID types.OrderId, bookID types.BookId, err error) []byte {
	r := Report{
		MessageType: ErrorReport,
		OrderID:     orderID,
		BookID:      bookID,
		Err:         fmt.Sprintf("%v", err),
	}
	return r.Serialize()
}
