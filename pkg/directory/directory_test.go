package directory_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/geomap/internal/testhelper"
	"github.com/agentstation/geomap/internal/transport"
	"github.com/agentstation/geomap/pkg/directory"
	"github.com/agentstation/geomap/pkg/errors"
	"github.com/agentstation/geomap/pkg/validators"
)

func newServer(t *testing.T) *testhelper.RPCServer {
	t.Helper()
	server := testhelper.NewRPCServer(t)
	server.Handle(directory.MethodClusterNodes, testhelper.LoadTestdata(t, "cluster_nodes.json"))
	server.Handle(directory.MethodVoteAccounts, testhelper.LoadTestdata(t, "vote_accounts.json"))
	return server
}

func TestListCandidates(t *testing.T) {
	server := newServer(t)
	client := directory.New(directory.WithEndpoint(server.URL))

	candidates, err := client.ListCandidates(context.Background())
	require.NoError(t, err)

	want := []validators.Candidate{
		{NodeIdentity: "NodeA111", VoteIdentity: "VoteA111", Address: "203.0.113.10"},
		{NodeIdentity: "NodeB222", VoteIdentity: "VoteB222", Address: "198.51.100.7"},
		{NodeIdentity: "NodeC333", VoteIdentity: "VoteC333", Address: "2001:db8::5"},
	}
	if diff := cmp.Diff(want, candidates); diff != "" {
		t.Errorf("candidates mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, []string{directory.MethodClusterNodes, directory.MethodVoteAccounts}, server.Calls())
}

func TestListCandidatesIncludesDelinquent(t *testing.T) {
	server := testhelper.NewRPCServer(t)
	server.Handle(directory.MethodClusterNodes, []byte(`[{"pubkey":"Late","gossip":"10.1.1.1:8001"}]`))
	server.Handle(directory.MethodVoteAccounts, []byte(`{"current":[],"delinquent":[{"nodePubkey":"Late","votePubkey":"LateVote"}]}`))

	candidates, err := directory.New(directory.WithEndpoint(server.URL)).ListCandidates(context.Background())
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "LateVote", candidates[0].VoteIdentity)
	assert.Equal(t, "10.1.1.1", candidates[0].Address)
}

func TestListCandidatesUpstreamFailures(t *testing.T) {
	t.Run("vote accounts method missing", func(t *testing.T) {
		server := testhelper.NewRPCServer(t)
		server.Handle(directory.MethodClusterNodes, testhelper.LoadTestdata(t, "cluster_nodes.json"))

		_, err := directory.New(directory.WithEndpoint(server.URL)).ListCandidates(context.Background())
		require.Error(t, err)
		assert.True(t, errors.IsUpstreamUnavailable(err))

		var upstream *errors.UpstreamError
		require.ErrorAs(t, err, &upstream)
		assert.Equal(t, directory.MethodVoteAccounts, upstream.Method)
	})

	t.Run("malformed result", func(t *testing.T) {
		server := testhelper.NewRPCServer(t)
		server.Handle(directory.MethodClusterNodes, []byte(`{"not":"a list"}`))
		server.Handle(directory.MethodVoteAccounts, testhelper.LoadTestdata(t, "vote_accounts.json"))

		_, err := directory.New(directory.WithEndpoint(server.URL)).ListCandidates(context.Background())
		assert.True(t, errors.IsUpstreamUnavailable(err))
		assert.Equal(t, []string{directory.MethodClusterNodes}, server.Calls())
	})

	t.Run("http status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "maintenance", http.StatusServiceUnavailable)
		}))
		defer server.Close()

		_, err := directory.New(directory.WithEndpoint(server.URL)).ListCandidates(context.Background())
		var upstream *errors.UpstreamError
		require.ErrorAs(t, err, &upstream)
		assert.Equal(t, http.StatusServiceUnavailable, upstream.StatusCode)
	})

	t.Run("unreachable endpoint", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		_, err := directory.New(directory.WithEndpoint(url)).ListCandidates(context.Background())
		assert.True(t, errors.IsUpstreamUnavailable(err))
	})
}

func TestWithTransportSendsCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer rpc-token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":[]}`))
	}))
	defer server.Close()

	client := directory.New(
		directory.WithEndpoint(server.URL),
		directory.WithTransport(transport.New(transport.WithAuth(&transport.BearerAuth{}, "rpc-token"))),
	)
	nodes, err := client.ClusterNodes(context.Background())
	require.NoError(t, err)
	assert.Empty(t, nodes)
}

func TestJoin(t *testing.T) {
	gossip := "10.0.0.1:8001"
	nodes := []directory.ClusterNode{{Pubkey: "Dup", Gossip: &gossip}}
	accounts := &directory.VoteAccounts{
		Current:    []directory.VoteAccount{{NodePubkey: "Dup", VotePubkey: "CurrentVote"}},
		Delinquent: []directory.VoteAccount{{NodePubkey: "Dup", VotePubkey: "DelinquentVote"}},
	}

	got := directory.Join(nodes, accounts)
	require.Len(t, got, 1)
	assert.Equal(t, "DelinquentVote", got[0].VoteIdentity)

	assert.Empty(t, directory.Join(nodes, nil))
}

func TestHostOf(t *testing.T) {
	tests := []struct {
		gossip string
		want   string
	}{
		{"203.0.113.10:8001", "203.0.113.10"},
		{"203.0.113.10", "203.0.113.10"},
		{"[2001:db8::5]:8001", "2001:db8::5"},
		{"host.example:8001", "host.example"},
	}
	for _, tt := range tests {
		t.Run(tt.gossip, func(t *testing.T) {
			assert.Equal(t, tt.want, directory.HostOf(tt.gossip))
		})
	}
}
