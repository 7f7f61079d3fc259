// Package bus is the client side of the audio daemon protocol: one JSON
// object per line over a unix socket, one request/response per connection.
// The daemon owns all playback state; this client only delivers commands.
package bus

import (
	"bufio"
	"encoding/json"
	"fmt"
	log "log/slog"
	"net"
	"time"
)

// Command names understood by the audio daemon.
const (
	CmdPlayMP3    = "PLAY_MP3"
	CmdPlayWAV    = "PLAY_WAV"
	CmdPlayStream = "PLAY_STREAM"
	CmdStop       = "STOP"
	CmdStatus     = "STATUS"
)

type Command struct {
	Cmd  string `json:"cmd"`
	Path string `json:"path,omitempty"`
	URL  string `json:"url,omitempty"`
}

// Reply is whatever the daemon sends back. A failed delivery is also a
// Reply (OK=false, Err=ClientFail) so callers never have to handle a
// transport error as anything but a value.
type Reply struct {
	OK      bool   `json:"ok"`
	Err     string `json:"err,omitempty"`
	Msg     string `json:"msg,omitempty"`
	Playing bool   `json:"playing,omitempty"`
}

// ClientFail marks a synthetic reply produced after all delivery attempts
// were exhausted.
const ClientFail = "AUDIO_CLIENT_FAIL"

type Client struct {
	sock        string
	tries       int
	retryDelay  time.Duration
	dialTimeout time.Duration
	readTimeout time.Duration
}

func NewClient(sock string, tries int, retryDelay time.Duration) *Client {
	if tries < 1 {
		tries = 1
	}
	return &Client{
		sock:        sock,
		tries:       tries,
		retryDelay:  retryDelay,
		dialTimeout: 200 * time.Millisecond,
		readTimeout: time.Second,
	}
}

// Send delivers one command and reads one reply line. Up to the configured
// number of attempts; a new connection per attempt. Never returns an error:
// after the last failed attempt the reply is {ok:false, err:AUDIO_CLIENT_FAIL}.
func (c *Client) Send(cmd Command) Reply {
	var last string

	for i := 0; i < c.tries; i++ {
		if i > 0 {
			time.Sleep(c.retryDelay)
		}

		rep, diag := c.attempt(cmd)
		if diag == "" {
			return rep
		}
		last = diag
	}

	log.Debug("audio command undeliverable", "cmd", cmd.Cmd, "last", last)
	return Reply{OK: false, Err: ClientFail, Msg: last}
}

func (c *Client) attempt(cmd Command) (Reply, string) {
	conn, err := net.DialTimeout("unix", c.sock, c.dialTimeout)
	if err != nil {
		return Reply{}, fmt.Sprintf("connect_fail err=%v", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.readTimeout))

	payload, err := json.Marshal(cmd)
	if err != nil {
		return Reply{}, fmt.Sprintf("encode_fail err=%v", err)
	}
	if _, err := conn.Write(append(payload, '\n')); err != nil {
		return Reply{}, fmt.Sprintf("write_fail err=%v", err)
	}

	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil && line == "" {
		return Reply{}, fmt.Sprintf("read_fail err=%v", err)
	}

	var rep Reply
	if err := json.Unmarshal([]byte(line), &rep); err != nil {
		return Reply{}, "bad_json_reply: " + line
	}
	return rep, ""
}

func (c *Client) PlayMP3(path string) Reply   { return c.Send(Command{Cmd: CmdPlayMP3, Path: path}) }
func (c *Client) PlayWAV(path string) Reply   { return c.Send(Command{Cmd: CmdPlayWAV, Path: path}) }
func (c *Client) PlayStream(url string) Reply { return c.Send(Command{Cmd: CmdPlayStream, URL: url}) }
func (c *Client) Stop() Reply                 { return c.Send(Command{Cmd: CmdStop}) }
func (c *Client) Status() Reply               { return c.Send(Command{Cmd: CmdStatus}) }
