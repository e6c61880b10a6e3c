// Command lobctl is a TCP client for lobd: it sends NewOrder,
// CancelOrder and LogBook requests and prints execution/error reports
// as they arrive.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	lobnet "lob/internal/net"
)

func main() {
	serverAddr := flag.String("server", "127.0.0.1:9001", "address of the exchange server")
	action := flag.String("action", "place", "action to perform: ['place', 'cancel', 'log']")

	bookID := flag.Uint("book", 0, "book id")
	orderID := flag.Uint("order", 0, "order id")
	price := flag.Uint("price", 100, "limit price")
	qty := flag.Uint("qty", 10, "quantity")
	sideStr := flag.String("side", "buy", "order side: 'buy' or 'sell'")
	trader := flag.String("trader", "0x0000000000000000000000000000000000000000", "trader address (hex)")
	nonce := flag.Uint64("nonce", 0, "signing nonce")
	signature := flag.String("signature", "", "signature (hex, up to 65 bytes)")

	flag.Parse()

	conn, err := net.Dial("tcp", *serverAddr)
	if err != nil {
		log.Fatalf("failed to connect to server at %s: %v", *serverAddr, err)
	}
	defer conn.Close()
	fmt.Printf("connected to %s\n", *serverAddr)

	go readReports(conn)

	switch strings.ToLower(*action) {
	case "place":
		isBid := strings.ToLower(*sideStr) != "sell"
		if err := sendNewOrder(conn, *orderID, *bookID, *price, *qty, isBid, *trader, *nonce, *signature); err != nil {
			log.Printf("failed to place order: %v", err)
		} else {
			fmt.Printf("-> sent order %d on book %d\n", *orderID, *bookID)
		}
	case "cancel":
		if err := sendCancelOrder(conn, *orderID, *bookID, *qty); err != nil {
			log.Printf("failed to send cancel request: %v", err)
		} else {
			fmt.Printf("-> sent cancel for order %d\n", *orderID)
		}
	case "log":
		if err := sendLogBook(conn, *bookID); err != nil {
			log.Printf("failed to send log request: %v", err)
		} else {
			fmt.Println("-> sent log request")
		}
	default:
		log.Fatalf("unknown action: %s", *action)
	}

	fmt.Println("listening for reports... (ctrl-c to exit)")
	select {}
}

func sendNewOrder(conn net.Conn, orderID, bookID, price, qty uint, isBid bool, trader string, nonce uint64, signature string) error {
	buf := make([]byte, lobnet.BaseMessageHeaderLen+lobnet.NewOrderMessageLen)
	binary.BigEndian.PutUint16(buf[0:2], uint16(lobnet.NewOrder))

	body := buf[2:]
	binary.BigEndian.PutUint32(body[0:4], uint32(orderID))
	binary.BigEndian.PutUint32(body[4:8], uint32(bookID))
	binary.BigEndian.PutUint32(body[8:12], uint32(price))
	binary.BigEndian.PutUint32(body[12:16], uint32(qty))
	if isBid {
		body[16] = 1
	}
	binary.BigEndian.PutUint64(body[17:25], nonce)
	binary.BigEndian.PutUint64(body[25:33], ^uint64(0))
	body[33] = 0 // no expiry

	traderBytes := common.FromHex(trader)
	copy(body[34:54], traderBytes)

	sigBytes := common.FromHex(signature)
	copy(body[54:119], sigBytes)

	_, err := conn.Write(buf)
	return err
}

func sendCancelOrder(conn net.Conn, orderID, bookID, qty uint) error {
	buf := make([]byte, lobnet.BaseMessageHeaderLen+lobnet.CancelOrderMessageLen)
	binary.BigEndian.PutUint16(buf[0:2], uint16(lobnet.CancelOrder))
	body := buf[2:]
	binary.BigEndian.PutUint32(body[0:4], uint32(orderID))
	binary.BigEndian.PutUint32(body[4:8], uint32(bookID))
	binary.BigEndian.PutUint32(body[8:12], uint32(qty))
	_, err := conn.Write(buf)
	return err
}

func sendLogBook(conn net.Conn, bookID uint) error {
	buf := make([]byte, lobnet.BaseMessageHeaderLen+lobnet.LogBookMessageLen)
	binary.BigEndian.PutUint16(buf[0:2], uint16(lobnet.LogBook))
	binary.BigEndian.PutUint32(buf[2:6], uint32(bookID))
	_, err := conn.Write(buf)
	return err
}

func readReports(conn net.Conn) {
	for {
		header := make([]byte, 1+4+4+4+4+1+20+4)
		if _, err := io.ReadFull(conn, header); err != nil {
			if err != io.EOF {
				log.Printf("connection lost: %v", err)
			}
			os.Exit(0)
		}

		msgType := lobnet.ReportMessageType(header[0])
		orderID := binary.BigEndian.Uint32(header[1:5])
		bookID := binary.BigEndian.Uint32(header[5:9])
		execQty := binary.BigEndian.Uint32(header[9:13])
		execPrice := binary.BigEndian.Uint32(header[13:17])
		counterparty := header[18:38]
		errLen := binary.BigEndian.Uint32(header[38:42])

		errStr := ""
		if errLen > 0 {
			body := make([]byte, errLen)
			if _, err := io.ReadFull(conn, body); err != nil {
				log.Printf("error reading report body: %v", err)
				continue
			}
			errStr = string(body)
		}

		if msgType == lobnet.ErrorReport {
			fmt.Printf("\n[error] order %d book %d: %s\n", orderID, bookID, errStr)
			continue
		}

		fmt.Printf("\n[execution] order %d book %d qty %d price %d vs %s\n",
			orderID, bookID, execQty, execPrice, common.BytesToAddress(counterparty).Hex())
	}
}
