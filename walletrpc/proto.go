// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

package walletrpc

import "fmt"

// protoTextString gives every message type in this package a debug String
// implementation without pulling in full protoreflect descriptor support,
// which a hand-authored package can't provide faithfully.
func protoTextString(m interface{}) string {
	return fmt.Sprintf("%+v", m)
}
