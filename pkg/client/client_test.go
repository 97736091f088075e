package client

import (
	"bufio"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bancod/bancod/pkg/protocol"
)

// stubWorker answers every connection with a canned line and records
// the request it received.
func stubWorker(t *testing.T, reply string) (addr string, requests <-chan string) {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })

	ch := make(chan string, 8)
	go func() {
		for {
			conn, err := l.Accept()
			if err != nil {
				return
			}
			line, _ := bufio.NewReader(conn).ReadString('\n')
			ch <- line
			conn.Write([]byte(reply + "\n"))
			conn.Close()
		}
	}()
	return l.Addr().String(), ch
}

func TestExecuteTxFraming(t *testing.T) {
	addr, requests := stubWorker(t, "RESULT|tx-7|SUCCESS|Transferencia completada")

	c := NewClient(addr).WithTimeout(2 * time.Second)
	resp, err := c.ExecuteTx("tx-7", "TRANSFERIR_CUENTA", "7", "10", "30.00")
	require.NoError(t, err)

	assert.Equal(t, "EXECUTE|tx-7|TRANSFERIR_CUENTA|7|10|30.00\n", <-requests)
	assert.Equal(t, protocol.Response{
		TxID:    "tx-7",
		Status:  protocol.StatusSuccess,
		Payload: "Transferencia completada",
	}, resp)
}

func TestExecuteGeneratesTxID(t *testing.T) {
	addr, requests := stubWorker(t, "RESULT|x|SUCCESS|ok")

	c := NewClient(addr).WithTimeout(2 * time.Second)
	_, err := c.Execute("ARQUEO_CUENTAS")
	require.NoError(t, err)

	line := strings.TrimRight(<-requests, "\n")
	fields := strings.Split(line, "|")
	require.Len(t, fields, 3)
	assert.Equal(t, "EXECUTE", fields[0])
	assert.Len(t, fields[1], 8)
	assert.Equal(t, "ARQUEO_CUENTAS", fields[2])
}

// Framing rejections arrive as a bare ERROR line outside the RESULT
// framing; the client surfaces them as an error response with no tx id.
func TestBareErrorFallback(t *testing.T) {
	addr, _ := stubWorker(t, "ERROR|Formato inválido")

	c := NewClient(addr).WithTimeout(2 * time.Second)
	resp, err := c.Execute("CONSULTAR_CUENTA", "7")
	require.NoError(t, err)
	assert.Equal(t, protocol.StatusError, resp.Status)
	assert.Equal(t, "Formato inválido", resp.Payload)
	assert.Empty(t, resp.TxID)
}

func TestGarbageResponse(t *testing.T) {
	addr, _ := stubWorker(t, "HELLO|WORLD")

	c := NewClient(addr).WithTimeout(2 * time.Second)
	_, err := c.Execute("CONSULTAR_CUENTA", "7")
	assert.Error(t, err)
}

func TestDialFailure(t *testing.T) {
	c := NewClient("127.0.0.1:1").WithTimeout(500 * time.Millisecond)
	_, err := c.Execute("CONSULTAR_CUENTA", "7")
	assert.Error(t, err)
}
