package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"DoubleDown/internal/chart"
	"DoubleDown/internal/collector"
	"DoubleDown/internal/model"
	"DoubleDown/internal/notifier"
	"DoubleDown/internal/recorder"
	"DoubleDown/internal/replay"
	"DoubleDown/internal/table"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// ReplayQuery is the replay socket's query string, and the optional payload
// of a command that changes it.
type ReplayQuery struct {
	Code              string  `schema:"code" json:"code"`
	StartDate         string  `schema:"start_date" json:"start_date"`
	EndDate           string  `schema:"end_date" json:"end_date"`
	TotalFunds        float64 `schema:"total_funds" json:"total_funds"`
	InitialStockCount int     `schema:"initial_stock_count" json:"initial_stock_count"`
	Strategy          string  `schema:"strategy" json:"strategy"`
	IntervalMs        int     `schema:"interval_ms" json:"interval_ms"`
	Autostart         bool    `schema:"autostart" json:"autostart"`
}

func (q ReplayQuery) request() collector.Request {
	return collector.Request{Code: q.Code, StartDate: q.StartDate, EndDate: q.EndDate}
}

// Command is a client message on the replay socket.
type Command struct {
	Action string       `json:"action"`
	Query  *ReplayQuery `json:"query,omitempty"`
}

const (
	ActionFetch = "fetch"
	ActionStart = "start"
	ActionStop  = "stop"
	ActionReset = "reset"
)

// Message is a server message on the replay socket.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

const (
	MsgBegin  = "begin"
	MsgStep   = "step"
	MsgFlush  = "flush"
	MsgResult = "result"
	MsgClear  = "clear"
	MsgToast  = "toast"
	MsgBars   = "bars"
	MsgStatus = "status"
)

// BarsData is the payload of a bars message.
type BarsData struct {
	Caption string     `json:"caption"`
	Rows    [][]string `json:"rows"`
}

// wsConn serializes writes; gorilla connections allow one concurrent writer.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) send(msgType string, data interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	if err := c.conn.WriteJSON(Message{Type: msgType, Data: data}); err != nil {
		log.Debugf("replay socket write: %v", err)
	}
}

// wsRenderer streams chart updates to the browser.
type wsRenderer struct{ c *wsConn }

func (r wsRenderer) Begin(first model.Point)  { r.c.send(MsgBegin, first) }
func (r wsRenderer) Append(step model.Step)   { r.c.send(MsgStep, step) }
func (r wsRenderer) Flush()                   { r.c.send(MsgFlush, nil) }
func (r wsRenderer) Finish(res *model.Result) { r.c.send(MsgResult, res) }
func (r wsRenderer) Clear()                   { r.c.send(MsgClear, nil) }

// wsNotifier forwards toasts to the browser.
type wsNotifier struct{ c *wsConn }

func (n wsNotifier) Notify(t notifier.Toast) { n.c.send(MsgToast, t) }

// wsView sends the fetched series as table rows.
type wsView struct{ c *wsConn }

func (v wsView) ShowBars(bars []model.Bar) {
	v.c.send(MsgBars, BarsData{Caption: table.Caption(bars), Rows: table.Rows(bars)})
}

func (s *Server) handleReplay(w http.ResponseWriter, r *http.Request) {
	var q ReplayQuery
	if err := s.decoder.Decode(&q, r.URL.Query()); err != nil {
		setErrorResponse(http.StatusBadRequest, err.Error(), w)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Errorf("handleReplay: upgrade: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	c := &wsConn{conn: conn}
	ws := wsRenderer{c: c}
	n := wsNotifier{c: c}

	var mu sync.Mutex
	meta := s.runRecord(q.request(), s.params(q.TotalFunds, q.InitialStockCount, q.Strategy, q.IntervalMs))
	rec := recorder.NewChartRecorder(s.Recorder, meta)

	player := replay.NewPlayer(chart.Multi{ws, rec})
	player.OnFinish(func(res *model.Result) {
		n.Notify(notifier.Finished(res))
		c.send(MsgStatus, model.StatusDone)
	})
	session := replay.NewSession(collector.NewCollector(s.Fetcher, s.Debounce), player, n, wsView{c: c})

	run := func(cmd Command) {
		mu.Lock()
		if cmd.Query != nil {
			q = *cmd.Query
			if !player.Running() {
				rec.Meta = s.runRecord(q.request(), s.params(q.TotalFunds, q.InitialStockCount, q.Strategy, q.IntervalMs))
			}
		}
		query := q
		mu.Unlock()

		params := s.params(query.TotalFunds, query.InitialStockCount, query.Strategy, query.IntervalMs)
		switch cmd.Action {
		case ActionFetch:
			session.Fetch(ctx, query.request())
		case ActionStart:
			if err := session.Start(ctx, query.request(), params); err != nil {
				log.Debugf("replay start: %v", err)
			}
		case ActionStop:
			player.Stop()
		case ActionReset:
			session.Reset()
		default:
			n.Notify(notifier.NewToast(notifier.LevelWarning, "unknown action "+cmd.Action, ""))
			return
		}
		c.send(MsgStatus, session.Status())
	}

	c.send(MsgStatus, session.Status())
	if q.Autostart {
		run(Command{Action: ActionStart})
	}

	for {
		var cmd Command
		if err := conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warnf("handleReplay: read: %v", err)
			}
			player.Stop()
			return
		}
		run(cmd)
	}
}

func msToDuration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
