// Package msgs defines the messages between a link node and its consoles.
//
// Every message travels as a Typed envelope: a type ID, a sequence and the
// protobuf encoding of the message. Commands carry a sequence picked by the
// console and the node replies with the same sequence. Events, such as
// LinkReceived, are sent by the node at any time with sequence 0.
//
// Link commands:
//
//	LinkKeySet     -> LinkKeySetReply | CommandErr
//	LinkKeyQuery   -> LinkKeyStatus
//	LinkTransmit   -> LinkTransmitReply | CommandErr
//	LinkInfoQuery  -> LinkInfo
//	LinkStatsQuery -> LinkStats
package msgs
