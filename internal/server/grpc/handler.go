package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/userhub/internal/common"
	"github.com/dmitrijs2005/userhub/internal/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	pb "github.com/dmitrijs2005/userhub/internal/proto/accounts/v1"
)

const (
	msgRemoved  = "User removed successfully"
	msgNotFound = "User not found"
)

// RemoveUser deletes the account with the requested id. A missing account is
// a normal reply without an account, not an RPC error.
func (s *GRPCServer) RemoveUser(ctx context.Context, req *pb.RemoveUserRequest) (*pb.RemoveUserReply, error) {
	id, err := models.ParseAccountID(req.GetId())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	view, err := s.accounts.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Info(ctx, "Remove requested for unknown account", "id", id.String())
			return &pb.RemoveUserReply{Message: msgNotFound}, nil
		}
		s.logger.Error(ctx, "Remove failed", "id", id.String(), "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}

	s.logger.Info(ctx, "Account removed", "id", view.ID)
	return &pb.RemoveUserReply{Message: msgRemoved, Account: toProtoView(view)}, nil
}

func toProtoView(v *models.AccountView) *pb.AccountView {
	return &pb.AccountView{Id: v.ID, Username: v.Username, Role: string(v.Role)}
}
