package server

import (
	"bufio"
	"io"
	"net"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bancod/bancod/pkg/client"
	"github.com/bancod/bancod/pkg/engine"
	"github.com/bancod/bancod/pkg/log"
	"github.com/bancod/bancod/pkg/protocol"
	"github.com/bancod/bancod/pkg/store"
)

func TestMain(m *testing.M) {
	log.Init(log.Config{Level: log.ErrorLevel, JSONOutput: true, Output: io.Discard})
	os.Exit(m.Run())
}

// startTestServer seeds a node with two partition-1 accounts, starts a
// server on an ephemeral port and returns a client bound to it plus the
// dial address.
func startTestServer(t *testing.T) (*client.Client, string) {
	t.Helper()
	dataDir := t.TempDir()
	require.NoError(t, os.MkdirAll(store.NodeDir(dataDir, 1), 0o755))

	st, err := store.Open(&store.Config{DataDir: dataDir, NodeID: 1, Partitions: 3})
	require.NoError(t, err)
	st.Lock()
	require.NoError(t, st.WriteTable(store.TableAccounts, 1, []string{
		"7,cliente_7,100.00,2020-01-01",
		"10,cliente_10,50.00,2020-01-01",
	}))
	require.NoError(t, st.WriteTable(store.TableHistory, 1, nil))
	st.Unlock()

	srv := NewServer(&Config{
		Engine:      engine.NewEngine(&engine.Config{Store: st}),
		ReadTimeout: 5 * time.Second,
	})
	require.NoError(t, srv.Listen("127.0.0.1:0"))
	go srv.Serve()
	t.Cleanup(srv.Stop)

	addr := srv.Addr().String()
	return client.NewClient(addr).WithTimeout(5 * time.Second), addr
}

func TestServeQuery(t *testing.T) {
	c, _ := startTestServer(t)

	resp, err := c.ExecuteTx("tx-1", "CONSULTAR_CUENTA", "7")
	require.NoError(t, err)
	assert.Equal(t, "tx-1", resp.TxID)
	assert.Equal(t, protocol.StatusSuccess, resp.Status)
	assert.Equal(t, "7,cliente_7,100.00,2020-01-01", resp.Payload)
}

func TestServeQueryRejection(t *testing.T) {
	c, _ := startTestServer(t)

	resp, err := c.ExecuteTx("tx-2", "TRANSFERIR_CUENTA", "7", "10", "500.00")
	require.NoError(t, err)
	assert.Equal(t, "tx-2", resp.TxID)
	assert.Equal(t, protocol.StatusError, resp.Status)
	assert.Equal(t, "Fondos insuficientes", resp.Payload)
}

func TestServeTableResponse(t *testing.T) {
	c, _ := startTestServer(t)

	resp, err := c.Execute("TRANSFERIR_CUENTA", "7", "10", "30.00")
	require.NoError(t, err)
	require.Equal(t, protocol.StatusSuccess, resp.Status)

	resp, err = c.Execute("CONSULTAR_HISTORIAL", "7")
	require.NoError(t, err)
	require.Equal(t, protocol.StatusSuccess, resp.Status)
	require.True(t, resp.IsTable())

	headers, rows, err := resp.TableData()
	require.NoError(t, err)
	assert.Equal(t, []string{"fecha", "cuenta", "operacion", "detalle", "saldo"}, headers)
	require.Len(t, rows, 1)
	assert.Equal(t, "TRANSFERENCIA_ENVIADA", rows[0][2])
	assert.Equal(t, "70.00", rows[0][4])
}

func TestServeUnknownQuery(t *testing.T) {
	c, _ := startTestServer(t)

	resp, err := c.Execute("BORRAR_TODO")
	require.NoError(t, err)
	assert.Equal(t, protocol.StatusError, resp.Status)
	assert.Equal(t, "Query 'BORRAR_TODO' no soportada", resp.Payload)
}

func TestMalformedRequestRawWire(t *testing.T) {
	_, addr := startTestServer(t)

	for _, raw := range []string{"garbage\n", "QUERY|t1|CONSULTAR_CUENTA|7\n", "\n"} {
		conn, err := net.Dial("tcp", addr)
		require.NoError(t, err)
		_, err = conn.Write([]byte(raw))
		require.NoError(t, err)

		line, err := bufio.NewReader(conn).ReadString('\n')
		require.NoError(t, err)
		assert.Equal(t, "ERROR|Formato inválido\n", line, "request %q", raw)
		conn.Close()
	}
}

func TestConnectionClosedAfterResponse(t *testing.T) {
	_, addr := startTestServer(t)

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte("EXECUTE|t1|ARQUEO_CUENTAS\n"))
	require.NoError(t, err)

	reader := bufio.NewReader(conn)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "RESULT|t1|SUCCESS|150.00\n", line)

	// One request per connection: the server closes after answering.
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, err = reader.ReadString('\n')
	assert.ErrorIs(t, err, io.EOF)
}

func TestConcurrentClients(t *testing.T) {
	c, _ := startTestServer(t)

	const clients = 20
	var wg sync.WaitGroup
	for i := 0; i < clients; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := c.Execute("CONSULTAR_CUENTA", "7")
			if assert.NoError(t, err) {
				assert.Equal(t, protocol.StatusSuccess, resp.Status)
			}
		}()
	}
	wg.Wait()
}

func TestStopRefusesNewConnections(t *testing.T) {
	dataDir := t.TempDir()
	require.NoError(t, os.MkdirAll(store.NodeDir(dataDir, 1), 0o755))
	st, err := store.Open(&store.Config{DataDir: dataDir, NodeID: 1, Partitions: 3})
	require.NoError(t, err)

	srv := NewServer(&Config{Engine: engine.NewEngine(&engine.Config{Store: st})})
	require.NoError(t, srv.Listen("127.0.0.1:0"))
	addr := srv.Addr().String()
	go srv.Serve()

	srv.Stop()
	_, err = net.DialTimeout("tcp", addr, time.Second)
	assert.Error(t, err)
}

func TestServeWithoutListen(t *testing.T) {
	srv := NewServer(&Config{})
	assert.Error(t, srv.Serve())
}
