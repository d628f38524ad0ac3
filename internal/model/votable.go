package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// TargetKind 投票对象类型
type TargetKind string

const (
	TargetQuestion TargetKind = "question"
	TargetAnswer   TargetKind = "answer"
)

// VoteDirection 投票方向
type VoteDirection int8

const (
	VoteUp   VoteDirection = 1
	VoteDown VoteDirection = -1
)

func (d VoteDirection) String() string {
	if d == VoteUp {
		return "up"
	}
	return "down"
}

// VoteState 某用户对某对象的当前投票状态
type VoteState int8

const (
	VoteNone VoteState = iota
	VoteUpvoted
	VoteDownvoted
)

// Votable 持有赞成/反对集合的实体
type Votable interface {
	GetID() primitive.ObjectID
	GetAuthor() primitive.ObjectID
	GetVoteSets() (up, down []primitive.ObjectID)
	SetVoteSets(up, down []primitive.ObjectID)
}

// VoteStateOf 根据对象的投票集合推出用户当前状态
func VoteStateOf(v Votable, voter primitive.ObjectID) VoteState {
	up, down := v.GetVoteSets()
	switch {
	case containsID(up, voter):
		return VoteUpvoted
	case containsID(down, voter):
		return VoteDownvoted
	default:
		return VoteNone
	}
}

// VoteChange 一次投票转换对应的集合变更，加入一侧时总是从另一侧移除
type VoteChange struct {
	Voter    primitive.ObjectID
	AddUp    bool
	PullUp   bool
	AddDown  bool
	PullDown bool
}

// ApplyTo 按集合语义在内存中修改 v 的投票集合
func (c VoteChange) ApplyTo(v Votable) {
	up, down := v.GetVoteSets()
	if c.PullUp {
		up = removeID(up, c.Voter)
	}
	if c.PullDown {
		down = removeID(down, c.Voter)
	}
	if c.AddUp && !containsID(up, c.Voter) {
		up = append(up, c.Voter)
	}
	if c.AddDown && !containsID(down, c.Voter) {
		down = append(down, c.Voter)
	}
	v.SetVoteSets(up, down)
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func removeID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := ids[:0:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
