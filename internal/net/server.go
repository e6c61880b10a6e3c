package net

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"lob/internal/intake"
	"lob/internal/types"
)

const (
	MaxRecvSize        = 4 * 1024
	defaultNWorkers    = 10
	defaultConnTimeout = time.Second
)

var (
	ErrImproperConversion = errors.New("improper type conversion")
	ErrClientDoesNotExist = errors.New("client does not exist")
)

// ClientSession tracks one connected TCP session, keyed by the client's
// remote address.
type ClientSession struct {
	conn net.Conn
}

// ClientMessage links a message to the session that sent it.
type ClientMessage struct {
	clientAddress string
	message       Message
}

// Engine is the subset of internal/engine.Engine the transport needs.
type Engine interface {
	PlaceOrder(id types.OrderId, sub intake.Submission) error
	CancelOrder(bookID types.BookId, id types.OrderId, qty types.Qty)
	LogBook(bookID types.BookId)
}

type Server struct {
	address            string
	port               int
	engine             Engine
	cancel             context.CancelFunc
	clientSessions     map[string]ClientSession
	clientSessionsLock sync.Mutex
	clientMessages     chan ClientMessage
}

func New(address string, port int, engine Engine) *Server {
	return &Server{
		address:        address,
		port:           port,
		engine:         engine,
		clientSessions: make(map[string]ClientSession),
		clientMessages: make(chan ClientMessage, defaultNWorkers),
	}
}

func (s *Server) Shutdown() {
	log.Info().Msg("server shutting down")
	s.cancel()
}

func (s *Server) Run(ctx context.Context) {
	defer s.Shutdown()

	ctx, s.cancel = context.WithCancel(ctx)
	t, ctx := tomb.WithContext(ctx)

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", fmt.Sprintf("%s:%d", s.address, s.port))
	if err != nil {
		log.Error().Err(err).Msg("unable to start listener")
		return
	}
	defer func() {
		if err := listener.Close(); err != nil {
			log.Error().Err(err).Msg("unable to close listener")
		}
	}()

	t.Go(func() error {
		return s.sessionHandler(t)
	})

	log.Info().Msg("server running")

	for {
		select {
		case <-ctx.Done():
			return
		default:
			conn, err := listener.Accept()
			if err != nil {
				log.Error().Err(err).Msg("error accepting client")
				continue
			}

			sessionID := uuid.NewString()
			log.Info().
				Str("address", conn.LocalAddr().String()).
				Str("sessionId", sessionID).
				Msg("new client added")
			s.addClientSession(conn)
			t.Go(func() error { return s.handleConnection(t, conn, sessionID) })
		}
	}
}

func (s *Server) report(clientAddress string, payload []byte) error {
	s.clientSessionsLock.Lock()
	defer s.clientSessionsLock.Unlock()

	client, ok := s.clientSessions[clientAddress]
	if !ok {
		return ErrClientDoesNotExist
	}

	if _, err := client.conn.Write(payload); err != nil {
		delete(s.clientSessions, clientAddress)
		return fmt.Errorf("unable to send report: %w", err)
	}
	return nil
}

// ReportFill sends r to clientAddress as an execution report.
func (s *Server) ReportFill(clientAddress string, r Report) error {
	r.MessageType = ExecutionReport
	return s.report(clientAddress, r.Serialize())
}

// ReportError sends err to clientAddress as an error report.
func (s *Server) ReportError(clientAddress string, orderID types.OrderId, bookID types.BookId, err error) error {
	return s.report(clientAddress, errorReport(orderID, bookID, err))
}

func (s *Server) sessionHandler(t *tomb.Tomb) error {
	for {
		select {
		case <-t.Dying():
			return nil
		case message := <-s.clientMessages:
			if err := s.handleMessage(message); err != nil {
				log.Error().
					Err(err).
					Str("clientAddress", message.clientAddress).
					Msg("error handling message")
			}
		}
	}
}

func (s *Server) handleMessage(message ClientMessage) error {
	switch message.message.GetType() {
	case NewOrder:
		m, ok := message.message.(NewOrderMessage)
		if !ok {
			return ErrInvalidMessageType
		}
		sub := intake.Submission{
			BookID:    m.BookID,
			Price:     m.Price,
			Quantity:  m.Quantity,
			IsBid:     m.IsBid,
			Trader:    common.Bytes2Hex(m.Trader[:]),
			Nonce:     m.Nonce,
			Signature: common.Bytes2Hex(m.Signature[:]),
		}
		if m.HasExpiry {
			expiry := m.Expiry
			sub.Expiry = &expiry
		}
		if err := s.engine.PlaceOrder(m.OrderID, sub); err != nil {
			log.Error().
				Err(err).
				Str("clientAddress", message.clientAddress).
				Msg("error while placing order")
			return s.ReportError(message.clientAddress, m.OrderID, m.BookID, err)
		}
	case CancelOrder:
		m, ok := message.message.(CancelOrderMessage)
		if !ok {
			return ErrInvalidMessageType
		}
		s.engine.CancelOrder(m.BookID, m.OrderID, types.Qty(m.Quantity))
	case LogBook:
		m, ok := message.message.(LogBookMessage)
		if !ok {
			return ErrInvalidMessageType
		}
		s.engine.LogBook(m.BookID)
	default:
		log.Error().
			Int("messageType", int(message.message.GetType())).
			Msg("invalid message type")
		return ErrInvalidMessageType
	}
	return nil
}

// handleConnection is a long-lived per-client loop: it reads one message
// at a time off conn and hands it to sessionHandler, until the
// connection dies or the tomb does.
func (s *Server) handleConnection(t *tomb.Tomb, conn net.Conn, sessionID string) error {
	defer func() {
		if err := conn.Close(); err != nil {
			log.Error().Str("address", conn.LocalAddr().String()).Str("sessionId", sessionID).Err(err).Msg("error closing connection")
		}
		s.deleteClientSession(conn.RemoteAddr().String())
	}()

	buffer := make([]byte, MaxRecvSize)
	for {
		select {
		case <-t.Dying():
			return nil
		default:
		}

		if err := conn.SetDeadline(time.Now().Add(defaultConnTimeout)); err != nil {
			log.Error().Err(err).Msg("failed setting deadline for connection")
			return nil
		}

		n, err := conn.Read(buffer)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			log.Error().Err(err).Str("address", conn.LocalAddr().String()).Msg("error reading from connection")
			return nil
		}

		message, err := parseMessage(buffer[:n])
		if err != nil {
			log.Error().Err(err).Str("address", conn.LocalAddr().String()).Msg("error parsing message")
			continue
		}

		s.clientMessages <- ClientMessage{
			message:       message,
			clientAddress: conn.RemoteAddr().String(),
		}
	}
}

func (s *Server) addClientSession(conn net.Conn) {
	s.clientSessionsLock.Lock()
	defer s.clientSessionsLock.Unlock()
	s.clientSessions[conn.RemoteAddr().String()] = ClientSession{conn: conn}
}

func (s *Server) deleteClientSession(address string) {
	s.clientSessionsLock.Lock()
	defer s.clientSessionsLock.Unlock()
	delete(s.clientSessions, address)
}
