// Package directory discovers the validators of a cluster by joining the
// getClusterNodes and getVoteAccounts JSON-RPC methods.
//
// Example usage:
//
//	client := directory.New(directory.WithEndpoint("https://api.mainnet-beta.solana.com"))
//	candidates, err := client.ListCandidates(ctx)
//	if err != nil {
//	    // errors.IsUpstreamUnavailable(err) is always true here
//	}
package directory

import (
	"context"
	"net"
	"strings"

	"github.com/agentstation/geomap/internal/transport"
	"github.com/agentstation/geomap/pkg/constants"
	"github.com/agentstation/geomap/pkg/errors"
	"github.com/agentstation/geomap/pkg/logging"
	"github.com/agentstation/geomap/pkg/validators"
)

// JSON-RPC methods used by the directory.
const (
	MethodClusterNodes = "getClusterNodes"
	MethodVoteAccounts = "getVoteAccounts"
)

// ClusterNode is one entry of the getClusterNodes result.
type ClusterNode struct {
	Pubkey  string  `json:"pubkey"`
	Gossip  *string `json:"gossip"`
	TPU     *string `json:"tpu,omitempty"`
	RPC     *string `json:"rpc,omitempty"`
	Version *string `json:"version,omitempty"`
}

// VoteAccount is one entry of the getVoteAccounts result.
type VoteAccount struct {
	VotePubkey       string `json:"votePubkey"`
	NodePubkey       string `json:"nodePubkey"`
	ActivatedStake   uint64 `json:"activatedStake"`
	Commission       int    `json:"commission"`
	EpochVoteAccount bool   `json:"epochVoteAccount"`
}

// VoteAccounts is the getVoteAccounts result.
type VoteAccounts struct {
	Current    []VoteAccount `json:"current"`
	Delinquent []VoteAccount `json:"delinquent"`
}

// Client lists candidate validators from a JSON-RPC endpoint.
type Client struct {
	endpoint  string
	transport *transport.Client
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint sets the JSON-RPC endpoint URL.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// WithTransport sets the transport client, e.g. one carrying credentials.
func WithTransport(t *transport.Client) Option {
	return func(c *Client) {
		if t != nil {
			c.transport = t
		}
	}
}

// New creates a directory client for the default endpoint unless overridden.
func New(opts ...Option) *Client {
	c := &Client{
		endpoint:  constants.DefaultEndpoint,
		transport: transport.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the JSON-RPC endpoint this client queries.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// ClusterNodes returns the getClusterNodes result.
func (c *Client) ClusterNodes(ctx context.Context) ([]ClusterNode, error) {
	var nodes []ClusterNode
	if err := c.call(ctx, MethodClusterNodes, &nodes); err != nil {
		return nil, err
	}
	return nodes, nil
}

// VoteAccounts returns the getVoteAccounts result.
func (c *Client) VoteAccounts(ctx context.Context) (*VoteAccounts, error) {
	var accounts VoteAccounts
	if err := c.call(ctx, MethodVoteAccounts, &accounts); err != nil {
		return nil, err
	}
	return &accounts, nil
}

// ListCandidates returns every node that has a gossip endpoint and a current
// or delinquent vote account, in the order getClusterNodes returned them.
// Any failure is an *errors.UpstreamError.
func (c *Client) ListCandidates(ctx context.Context) ([]validators.Candidate, error) {
	nodes, err := c.ClusterNodes(ctx)
	if err != nil {
		return nil, err
	}
	accounts, err := c.VoteAccounts(ctx)
	if err != nil {
		return nil, err
	}

	candidates := Join(nodes, accounts)
	logging.FromContext(ctx).Debug().
		Int("nodes", len(nodes)).
		Int("current", len(accounts.Current)).
		Int("delinquent", len(accounts.Delinquent)).
		Int("candidates", len(candidates)).
		Msg("Joined cluster nodes with vote accounts")
	return candidates, nil
}

// Join builds candidates from cluster nodes and vote accounts. Delinquent
// accounts count; a node listed twice maps to its last vote account.
func Join(nodes []ClusterNode, accounts *VoteAccounts) []validators.Candidate {
	nodeToVote := make(map[string]string)
	if accounts != nil {
		for _, v := range accounts.Current {
			nodeToVote[v.NodePubkey] = v.VotePubkey
		}
		for _, v := range accounts.Delinquent {
			nodeToVote[v.NodePubkey] = v.VotePubkey
		}
	}

	candidates := make([]validators.Candidate, 0, len(nodes))
	for _, node := range nodes {
		if node.Gossip == nil || *node.Gossip == "" {
			continue
		}
		vote, ok := nodeToVote[node.Pubkey]
		if !ok || vote == "" {
			continue
		}
		candidates = append(candidates, validators.Candidate{
			NodeIdentity: node.Pubkey,
			VoteIdentity: vote,
			Address:      HostOf(*node.Gossip),
		})
	}
	return candidates
}

// HostOf returns the address part of a gossip endpoint. Bracketed IPv6
// endpoints are unwrapped; anything else is cut at the first port separator.
func HostOf(gossip string) string {
	if host, _, err := net.SplitHostPort(gossip); err == nil {
		return host
	}
	host, _, _ := strings.Cut(gossip, ":")
	return host
}

func (c *Client) call(ctx context.Context, method string, result any) error {
	if err := c.transport.Call(ctx, c.endpoint, method, result); err != nil {
		upstream := errors.NewUpstreamError(method, c.endpoint, err)
		var apiErr *errors.APIError
		if errors.As(err, &apiErr) {
			upstream.StatusCode = apiErr.StatusCode
		}
		return upstream
	}
	return nil
}
