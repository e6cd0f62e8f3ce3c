// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

package director

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"google.golang.org/grpc"
)

func TestLoggingInterceptorPassesThroughResultAndError(t *testing.T) {
	log, hook := test.NewNullLogger()
	d := &Director{Log: logrus.NewEntry(log)}

	info := &grpc.UnaryServerInfo{FullMethod: "/Test/Method"}
	wantErr := errors.New("boom")
	_, err := d.loggingInterceptor(context.Background(), nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return "result", wantErr
	})
	if err != wantErr {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
	if len(hook.Entries) == 0 {
		t.Fatal("expected at least one log entry")
	}
}

func TestLoggingInterceptorNilLogSkipsLogging(t *testing.T) {
	d := &Director{}
	resp, err := d.loggingInterceptor(context.Background(), nil, &grpc.UnaryServerInfo{}, func(ctx context.Context, req interface{}) (interface{}, error) {
		return "ok", nil
	})
	if err != nil || resp != "ok" {
		t.Fatalf("resp=%v err=%v, want ok/nil", resp, err)
	}
}
