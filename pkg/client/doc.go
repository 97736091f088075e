/*
Package client provides a one-shot request client for worker nodes.

Used by the bancod query CLI command and by end-to-end tests. Each
Execute call dials the worker, sends one EXECUTE line with a generated
correlation id, reads the RESULT line and closes the connection.
*/
package client
