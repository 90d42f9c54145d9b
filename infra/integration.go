package infra

// RekognizedTopic receives one message per classified image.
var RekognizedTopic = ResourceDef{Type: "AWS::SNS::Topic"}

var RekognizedQueue = queue(60)

var RekognizedQueuePolicy = topicToQueuePolicy("RekognizedTopic", "RekognizedQueue")

var RekognizedSubscription = rawSubscription("RekognizedTopic", "RekognizedQueue")

var IntegrationFunctionRole = lambdaRole("send-xml",
	statement([]string{"ssm:GetParameter"}, Sub("arn:aws:ssm:${AWS::Region}:${AWS::AccountId}:parameter/${EndpointParameterName}")),
	statement([]string{"sqs:ReceiveMessage", "sqs:DeleteMessage", "sqs:GetQueueAttributes"}, GetAtt{"RekognizedQueue", "Arn"}),
)

// IntegrationFunction forwards classifications to the third-party endpoint as XML.
var IntegrationFunction = function("send-xml.zip", "IntegrationFunctionRole", 30, map[string]any{
	"THIRDPARTY_ENDPOINT_PARAM": Ref("EndpointParameterName"),
})

var IntegrationEventSource = queueSource("RekognizedQueue", "IntegrationFunction")
