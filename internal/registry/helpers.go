package registry

import "time"

func nowNS() uint64 { return uint64(time.Now().UnixNano()) }
