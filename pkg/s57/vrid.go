package s57

import "encoding/binary"

// vrid is the decoded VRID subfield set: RCNM(1) RCID(4 LE) RVER(2 LE)
// RUIN(1), 8 bytes total.
type vrid struct {
	RCNM int
	RCID int64
	Ruin int
}

func parseVRID(data []byte) (vrid, bool) {
	if len(data) < 8 {
		return vrid{}, false
	}
	return vrid{
		RCNM: int(data[0]),
		RCID: int64(binary.LittleEndian.Uint32(data[1:5])),
		Ruin: int(data[7]),
	}, true
}

func isNodeRCNM(rcnm int) bool {
	return rcnm == rcnmIsolatedNode || rcnm == rcnmConnectedNode
}
