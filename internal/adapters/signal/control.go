package signal

import "github.com/dkeye/ScoreStream/internal/protocol"

func (ctl *SignalWSController) handlePing(conn *WsSignalConn) {
	frame, err := protocol.EncodePong()
	ctl.sendFrame(conn, frame, err)
}
